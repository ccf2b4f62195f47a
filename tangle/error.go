package tangle

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Error categories. Every error returned while building or assembling a
// document matches exactly one of these with [errors.Is].
var (
	ErrStructural    = NewError("structural error")
	ErrDeclaration   = NewError("declaration error")
	ErrAttachment    = NewError("attachment error")
	ErrAliasConflict = NewError("alias conflict")
	ErrSyntax        = NewError("syntax error")
)

// Predefined errors (sentinel values).
var (
	ErrAmbiguousSearch   = ErrStructural.kindOf("more than one node matches search")
	ErrNoSearchMatch     = ErrStructural.kindOf("no node matches search")
	ErrUnresolvedRoot    = ErrStructural.kindOf("unresolved root")
	ErrGhostEntry        = ErrStructural.kindOf("ghost chunks cannot be entered by path")
	ErrGhostOpen         = ErrStructural.kindOf("a ghost chunk is already open")
	ErrGhostSealed       = ErrStructural.kindOf("ghost chunk already exited")
	ErrInvalidReference  = ErrStructural.kindOf("invalid reference")
	ErrDanglingReference = ErrStructural.kindOf("dangling reference")
	ErrReferenceCycle    = ErrStructural.kindOf("reference cycle")
	ErrMaxDepthExceeded  = ErrStructural.kindOf("maximum expansion depth exceeded")

	ErrRedeclared = ErrDeclaration.kindOf(
		"chunk already declared, drop the trailing ':'",
	)
	ErrUndeclared = ErrDeclaration.kindOf(
		"chunk must be declared with a trailing ':' before text is appended",
	)
	ErrNeverDeclared = ErrDeclaration.kindOf(
		"referenced chunk is never declared",
	)

	ErrNoCursor = ErrAttachment.kindOf(
		"no file to attach to, should the path start with '//'?",
	)

	ErrAliasRebound = ErrAliasConflict.kindOf("alias bound to a different root")

	ErrUnterminatedChunk = ErrSyntax.kindOf("unterminated chunk at end of input")
	ErrInvalidPath       = ErrSyntax.kindOf("invalid path")
	ErrReadInput         = ErrSyntax.kindOf("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	base  *Error      // Sentinel this error was derived from
	kind  *Error      // Category sentinel, nil for categories themselves
	attrs []slog.Attr // Attributes for structured logging
	line  int         // Document line, 0 if unknown
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.base = e

	return e
}

func (e *Error) kindOf(msg string) *Error {
	k := &Error{msg: msg, kind: e}
	k.base = k

	return k
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	e := &Error{err: err}
	e.base = e

	return e
}

// Error implements the error interface.
//
// The message is formatted as "line <n>: <msg> [<attrs>]: <err>", omitting
// whichever parts are unset.
func (e *Error) Error() string {
	var sb strings.Builder

	if e.line > 0 {
		fmt.Fprintf(&sb, "line %d: ", e.line)
	}

	sb.WriteString(e.msg)

	var detail []string

	for _, a := range e.attrs {
		if a.Key == "line" {
			continue
		}

		detail = append(detail, a.Key+"="+a.Value.String())
	}

	if len(detail) > 0 {
		if e.msg != "" {
			sb.WriteByte(' ')
		}

		sb.WriteString("[" + strings.Join(detail, " ") + "]")
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e derives from, or the category
// of that sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}

	return e.base == t.base || (e.kind != nil && e.kind == t.base)
}

// Line returns the document line number the error refers to, or 0.
func (e *Error) Line() int { return e.line }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.kind != nil {
		attrs = append(attrs, slog.String("kind", e.kind.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	c := *e
	c.attrs = newAttrs

	return &c
}

// At returns a copy of e that refers to document line n.
func (e *Error) At(n int) *Error {
	if n <= 0 {
		return e
	}

	c := e.With(slog.Int("line", n))
	c.line = n

	return c
}
