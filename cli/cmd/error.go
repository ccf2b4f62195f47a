package cmd

import (
	"log/slog"
	"slices"
)

// Error is a command failure carrying attributes for structured logging.
// Errors derived from the same sentinel by [Error.Wrap] or [Error.With]
// match it with [errors.Is].
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError returns a sentinel error with message msg.
func NewError(msg string) *Error { return &Error{msg: msg} }

func (e *Error) Error() string {
	switch {
	case e.err == nil:
		return e.msg
	case e.msg == "":
		return e.err.Error()
	default:
		return e.msg + ": " + e.err.Error()
	}
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t != nil && t.msg == e.msg
}

func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("error", e.msg)}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	return &Error{msg: e.msg, err: e.err, attrs: slices.Concat(e.attrs, attrs)}
}

var (
	ErrReadSource  = NewError("read source")
	ErrLanguages   = NewError("load language table")
	ErrOutputPath  = NewError("generated file escapes the output directory")
	ErrWriteOutput = NewError("write generated file")
	ErrLocation    = NewError("location must have the form file:line")
	ErrStale       = NewError("generated files differ from the document")
	ErrYAMLMarshal = NewError("marshal YAML")
	ErrWriteConfig = NewError("write configuration file")
	ErrFileExists  = NewError("file exists (use --force to overwrite)")
)
