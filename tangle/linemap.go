package tangle

import "log/slog"

// Line map errors.
var (
	ErrLookup        = NewError("lookup error")
	ErrUnknownFile   = ErrLookup.kindOf("no such generated file")
	ErrLineRange     = ErrLookup.kindOf("line out of range")
	ErrGeneratedLine = ErrLookup.kindOf("line has no source")
)

// LineMap holds, for every generated file, the document line of each of its
// lines.
type LineMap map[string][]int

// Lookup returns the 1-based document line that produced the 1-based line of
// the generated file.
func (m LineMap) Lookup(file string, line int) (int, error) {
	src, ok := m[file]
	if !ok {
		return 0, ErrUnknownFile.With(slog.String("file", file))
	}

	if line < 1 || line > len(src) {
		return 0, ErrLineRange.With(
			slog.String("file", file),
			slog.Int("at", line),
			slog.Int("lines", len(src)),
		)
	}

	if src[line-1] == 0 {
		return 0, ErrGeneratedLine.With(
			slog.String("file", file),
			slog.Int("at", line),
		)
	}

	return src[line-1], nil
}

// Files returns the names of every generated file in sorted order.
func (m LineMap) Files() []string { return sortedKeys(m) }
