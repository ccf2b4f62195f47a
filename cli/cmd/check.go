package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/ardnew/ct/tangle"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Check tangles a document in memory and compares the result with the files
// on disk.
type Check struct {
	Source   `embed:""`
	Generate `embed:""`

	Output string `help:"Directory holding generated files (default: the directory of the source)." placeholder:"DIR" short:"o" type:"path"`
	Diff   bool   `default:"true" help:"Print the differing lines of stale files." negatable:""`
}

type status int

const (
	statusOK status = iota
	statusStale
	statusMissing
)

func (s status) String() string {
	switch s {
	case statusOK:
		return "ok"
	case statusStale:
		return "stale"
	default:
		return "missing"
	}
}

type palette struct {
	ok, stale, missing, add, del, dim *color.Color
}

func newPalette(w io.Writer) palette {
	p := palette{
		ok:      color.New(color.FgGreen),
		stale:   color.New(color.FgYellow, color.Bold),
		missing: color.New(color.FgRed, color.Bold),
		add:     color.New(color.FgGreen),
		del:     color.New(color.FgRed),
		dim:     color.New(color.Faint),
	}

	f, ok := w.(*os.File)
	enable := ok && !color.NoColor &&
		(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))

	for _, c := range []*color.Color{p.ok, p.stale, p.missing, p.add, p.del, p.dim} {
		if enable {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

func (p palette) status(s status) *color.Color {
	switch s {
	case statusOK:
		return p.ok
	case statusStale:
		return p.stale
	default:
		return p.missing
	}
}

// Run executes the check command. It fails with [ErrStale] if any generated
// file is missing or differs.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	_, res, err := c.generate(ctx, &c.Source)
	if err != nil {
		return err
	}

	dir := c.Output
	if dir == "" {
		dir = c.dir()
	}

	w := stdout(ctx)
	p := newPalette(w)

	var stale []string

	for _, f := range res.Files {
		path := filepath.Join(dir, f.Name)

		s, old, err := compare(path, f)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s %s\n", p.status(s).Sprintf("%-7s", s), path)

		if s == statusOK {
			continue
		}

		stale = append(stale, path)

		if s == statusStale && c.Diff {
			writeDiff(w, p, old, f)
		}
	}

	if len(stale) > 0 {
		return ErrStale.With(slog.Any("files", stale))
	}

	return nil
}

func compare(path string, f *tangle.File) (status, string, error) {
	old, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return statusMissing, "", nil
	}

	if err != nil {
		return 0, "", ErrReadSource.With(slog.String("file", path)).Wrap(err)
	}

	if string(old) == string(f.Bytes()) {
		return statusOK, string(old), nil
	}

	return statusStale, string(old), nil
}

// writeDiff prints the lines that differ between old and the generated file
// f. Added lines are annotated with the document line they come from.
func writeDiff(w io.Writer, p palette, old string, f *tangle.File) {
	dmp := diffpatch.New()

	a, b, lines := dmp.DiffLinesToChars(old, string(f.Bytes()))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	oldLine, newLine := 1, 1

	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		if text == "" && d.Text == "" {
			continue
		}

		for _, line := range strings.Split(text, "\n") {
			switch d.Type {
			case diffpatch.DiffDelete:
				fmt.Fprintf(w, "  %s\n", p.del.Sprintf("-%4d %s", oldLine, line))
				oldLine++

			case diffpatch.DiffInsert:
				ref := ""
				if newLine <= len(f.Src) && f.Src[newLine-1] > 0 {
					src := f.Src[newLine-1]
					ref = p.dim.Sprintf("  (document line %d)", src)
				}

				fmt.Fprintf(w, "  %s%s\n", p.add.Sprintf("+%4d %s", newLine, line), ref)
				newLine++

			case diffpatch.DiffEqual:
				oldLine++
				newLine++
			}
		}
	}
}
