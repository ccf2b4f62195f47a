package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ct/convert"
	"github.com/ardnew/ct/log"
	"github.com/ardnew/ct/tangle"
)

// contextKey stores a [kong.Context] in a [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	stdoutKey       struct{}
	languagePathKey struct{}
)

// WithStdout returns a new context.Context whose commands print to w instead
// of [os.Stdout].
func WithStdout(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stdoutKey{}, w)
}

func stdout(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(stdoutKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// WithLanguagePath returns a new context.Context containing the language
// table files merged over the built-in table, lowest priority first. Files
// that do not exist are skipped.
func WithLanguagePath(ctx context.Context, files []string) context.Context {
	return context.WithValue(ctx, languagePathKey{}, files)
}

func languagesFrom(ctx context.Context) (*tangle.Languages, error) {
	langs, err := tangle.DefaultLanguages(ctx)
	if err != nil {
		return nil, err
	}

	files, _ := ctx.Value(languagePathKey{}).([]string)

	for _, file := range files {
		l, err := loadLanguages(ctx, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return nil, ErrLanguages.With(slog.String("file", file)).Wrap(err)
		}

		log.DebugContext(ctx, "merged language table",
			slog.String("file", file),
			slog.Int("languages", len(l.List)),
		)

		langs = langs.Merge(l)
	}

	return langs, nil
}

func loadLanguages(ctx context.Context, file string) (*tangle.Languages, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return tangle.ParseLanguages(ctx, f)
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Source names the literate document read by a command.
type Source struct {
	Source string `arg:"" default:"-" help:"Literate source file or '-' for stdin." name:"source"`
	From   string `default:"ct" enum:"ct,org" help:"Notation of the source (${enum})." short:"F"`
}

// name is the source name recorded in generated file headers.
func (s *Source) name() string {
	if s.Source == "" || s.Source == stdinSource {
		return "stdin"
	}

	return filepath.Base(s.Source)
}

// dir is the directory generated files are written to by default.
func (s *Source) dir() string {
	if s.Source == "" || s.Source == stdinSource {
		return "."
	}

	return filepath.Dir(s.Source)
}

func (s *Source) open() (io.ReadCloser, error) {
	if s.Source == "" || s.Source == stdinSource {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(s.Source)
	if err != nil {
		return nil, ErrReadSource.With(slog.String("source", s.Source)).Wrap(err)
	}

	return f, nil
}

// parse reads and builds the document, converting it to ct notation first if
// needed.
func (s *Source) parse(
	ctx context.Context,
	opts ...tangle.Option,
) (*tangle.Document, error) {
	rc, err := s.open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var r io.Reader = rc

	if s.From != "" && s.From != convert.FormatCT.String() {
		from, err := convert.ParseFormat(s.From)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := convert.Convert(ctx, &buf, r, from, convert.FormatCT); err != nil {
			return nil, err
		}

		r = &buf
	}

	opts = append([]tangle.Option{
		tangle.WithSourceName(s.name()),
		tangle.WithLogger(log.Default()),
	}, opts...)

	doc, err := tangle.Parse(ctx, r, opts...)
	if err != nil {
		return nil, tangle.WrapError(err).With(slog.String("source", s.Source))
	}

	log.DebugContext(ctx, "parsed document",
		slog.String("source", s.Source),
		slog.Int("nodes", doc.Len()),
		slog.Int("roots", len(doc.Roots())),
	)

	return doc, nil
}

// Generate holds the options that change the content of generated files.
type Generate struct {
	Header      bool `help:"Begin generated files with a do-not-edit comment."           negatable:""`
	DocComments bool `help:"Copy chunk prose into comments above function declarations." negatable:""`
	MaxDepth    int  `default:"1000" help:"Maximum reference expansion depth."`
}

func (g *Generate) options(ctx context.Context) ([]tangle.Option, error) {
	opts := []tangle.Option{
		tangle.WithHeader(g.Header),
		tangle.WithDocComments(g.DocComments),
	}

	if g.MaxDepth > 0 {
		opts = append(opts, tangle.WithMaxDepth(g.MaxDepth))
	}

	if g.Header || g.DocComments {
		langs, err := languagesFrom(ctx)
		if err != nil {
			return nil, err
		}

		opts = append(opts, tangle.WithLanguages(langs))
	}

	return opts, nil
}

// generate parses src and assembles every declared root.
func (g *Generate) generate(
	ctx context.Context,
	src *Source,
) (*tangle.Document, *tangle.Result, error) {
	opts, err := g.options(ctx)
	if err != nil {
		return nil, nil, err
	}

	doc, err := src.parse(ctx, opts...)
	if err != nil {
		return nil, nil, err
	}

	res, err := doc.Tangle(ctx)
	if err != nil {
		return nil, nil, tangle.WrapError(err).With(slog.String("source", src.Source))
	}

	return doc, res, nil
}
