package convert

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ardnew/ct/tangle"
)

// Format identifies a literate source notation.
type Format int

const (
	FormatCT Format = iota
	FormatOrg
	FormatNoweb
)

func (f Format) String() string {
	switch f {
	case FormatCT:
		return "ct"
	case FormatOrg:
		return "org"
	case FormatNoweb:
		return "noweb"
	default:
		return "unknown"
	}
}

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ct":
		return FormatCT, nil
	case "org":
		return FormatOrg, nil
	case "noweb", "nw":
		return FormatNoweb, nil
	default:
		return 0, ErrUnknownFormat.With(slog.String("format", s))
	}
}

// Errors returned by [Convert].
var (
	ErrUnknownFormat = tangle.NewError("unknown format")
	ErrUnsupported   = tangle.NewError("unsupported conversion")
	ErrRead          = tangle.NewError("failed to read input")
	ErrWrite         = tangle.NewError("failed to write output")
)

// DefaultLanguage is the org source block language used when a chunk
// carries no tag.
const DefaultLanguage = "text"

type options struct {
	lang string
}

// Option configures a conversion.
type Option func(*options)

// WithLanguage sets the org source block language written for chunks that
// carry no "#tag".
func WithLanguage(lang string) Option {
	return func(o *options) {
		if lang != "" {
			o.lang = lang
		}
	}
}

// filter rewrites one input line into zero or more output lines. Filters are
// stateful and must see every line in order.
type filter func(line string) []string

// chain returns the filters converting from into to.
func chain(from, to Format, o options) ([]filter, error) {
	switch {
	case from == to:
		return nil, nil
	case from == FormatOrg && to == FormatCT:
		return []filter{orgToCT()}, nil
	case from == FormatCT && to == FormatOrg:
		return []filter{ctToOrg(o.lang)}, nil
	case from == FormatCT && to == FormatNoweb:
		return []filter{ctToNoweb()}, nil
	case from == FormatOrg && to == FormatNoweb:
		return []filter{orgToCT(), ctToNoweb()}, nil
	default:
		return nil, ErrUnsupported.With(
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	}
}

// Convert rewrites the document read from r in format from into format to,
// writing the result to w. Conversion is line by line; no chunk tree is
// built.
func Convert(
	ctx context.Context,
	w io.Writer,
	r io.Reader,
	from, to Format,
	opts ...Option,
) error {
	o := options{lang: DefaultLanguage}
	for _, opt := range opts {
		opt(&o)
	}

	filters, err := chain(from, to, o)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 1<<20)

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		lines := []string{strings.TrimSuffix(sc.Text(), "\r")}
		for _, f := range filters {
			var next []string
			for _, line := range lines {
				next = append(next, f(line)...)
			}

			lines = next
		}

		for _, line := range lines {
			if _, err := bw.WriteString(line + "\n"); err != nil {
				return ErrWrite.Wrap(err)
			}
		}
	}

	if err := sc.Err(); err != nil {
		return ErrRead.Wrap(err)
	}

	if err := bw.Flush(); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}

// String is [Convert] over strings.
func String(ctx context.Context, s string, from, to Format, opts ...Option) (string, error) {
	var buf bytes.Buffer

	if err := Convert(ctx, &buf, strings.NewReader(s), from, to, opts...); err != nil {
		return "", err
	}

	return buf.String(), nil
}

var (
	orgNamed = regexp.MustCompile(`(?i)^#\+begin_src\s+(\S+)\s+<<(.+)>>=\s*$`)
	orgBegin = regexp.MustCompile(`(?i)^#\+begin_src\b`)
	orgEnd   = regexp.MustCompile(`(?i)^#\+end_src\b`)
	nowebRef = regexp.MustCompile(`<<([^<>]+)>>`)
	ctRef    = regexp.MustCompile("``([^`]+)``")
)

// orgIndent is the indentation org-mode adds inside source blocks.
const orgIndent = "  "

func orgToCT() filter {
	var inSrc, inDoc bool

	return func(line string) []string {
		switch {
		case orgNamed.MatchString(line):
			m := orgNamed.FindStringSubmatch(line)
			inSrc = true

			return []string{tangle.Delim + strings.TrimSpace(m[2]) + " #" + m[1]}

		case orgBegin.MatchString(line):
			inDoc = true

			return nil

		case orgEnd.MatchString(line):
			wasSrc := inSrc
			inSrc, inDoc = false, false

			if wasSrc {
				return []string{tangle.Delim}
			}

			return nil
		}

		if inSrc || inDoc {
			line = strings.TrimPrefix(line, orgIndent)
		}

		if inSrc {
			if loc := nowebRef.FindStringSubmatchIndex(line); loc != nil {
				line = line[:loc[0]] + tangle.Delim + line[loc[2]:loc[3]] +
					tangle.Delim + line[loc[1]:]
			}
		}

		return []string{line}
	}
}

// ctOpener returns the chunk path and tag of a line that opens a chunk, or
// false if line does not.
func ctOpener(line string) (path, tag string, ok bool) {
	switch {
	case tangle.IsChunkBoundary(line):
		return tangle.GhostRef, tangle.ExtractTag(line), true
	case tangle.IsDeclarationOpen(line):
		return tangle.ExtractPath(line), tangle.ExtractTag(line), true
	default:
		return "", "", false
	}
}

func ctToOrg(lang string) filter {
	var inChunk bool

	return func(line string) []string {
		if !inChunk {
			path, tag, ok := ctOpener(line)
			if !ok {
				return []string{line}
			}

			inChunk = true

			if tag == "" {
				tag = lang
			}

			return []string{"#+begin_src " + tag + " <<" + path + ">>="}
		}

		if tangle.IsChunkBoundary(line) {
			inChunk = false

			return []string{"#+end_src"}
		}

		line = ctRef.ReplaceAllString(line, "<<$1>>")
		if line != "" {
			line = orgIndent + line
		}

		return []string{line}
	}
}

func ctToNoweb() filter {
	var inChunk bool

	return func(line string) []string {
		if !inChunk {
			path, _, ok := ctOpener(line)
			if !ok {
				return []string{line}
			}

			inChunk = true

			return []string{"<<" + path + ">>="}
		}

		if tangle.IsChunkBoundary(line) {
			inChunk = false

			return []string{"@"}
		}

		return []string{ctRef.ReplaceAllString(line, "<<$1>>")}
	}
}
