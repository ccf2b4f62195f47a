package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/ct/convert"
)

// Convert rewrites a literate document into another notation.
type Convert struct {
	Source string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`

	From     string `default:"org"  enum:"ct,org"       help:"Notation of the source (${enum})." short:"F"`
	To       string `default:"ct"   enum:"ct,org,noweb" help:"Notation to write (${enum})."      short:"t"`
	Language string `default:"text"                     help:"Org source block language for untagged chunks." short:"l"`
	Output   string `help:"Output file (default: stdout)." short:"o" type:"path"`
}

// Run executes the convert command.
func (c *Convert) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	from, err := convert.ParseFormat(c.From)
	if err != nil {
		return err
	}

	to, err := convert.ParseFormat(c.To)
	if err != nil {
		return err
	}

	src := Source{Source: c.Source}

	r, err := src.open()
	if err != nil {
		return err
	}
	defer r.Close()

	var w io.Writer = stdout(ctx)

	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return ErrWriteOutput.With(slog.String("file", c.Output)).Wrap(err)
		}
		defer f.Close()

		w = f
	}

	return convert.Convert(ctx, w, r, from, to, convert.WithLanguage(c.Language))
}
