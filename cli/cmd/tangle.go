package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/ct/log"
	"github.com/ardnew/ct/tangle"
)

const (
	outputDirMode  os.FileMode = 0o755
	outputFileMode os.FileMode = 0o644
)

// Tangle writes every file declared in a literate document.
type Tangle struct {
	Source   `embed:""`
	Generate `embed:""`

	Output string `help:"Directory receiving generated files (default: the directory of the source)." placeholder:"DIR" short:"o" type:"path"`
	DryRun bool   `help:"List the files that would be written without writing them."                                short:"n"`
}

// Run executes the tangle command.
//
// Nothing is written unless every root assembles. Files whose content is
// unchanged are left untouched.
func (t *Tangle) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	_, res, err := t.generate(ctx, &t.Source)
	if err != nil {
		return err
	}

	dir := t.Output
	if dir == "" {
		dir = t.dir()
	}

	paths := make([]string, len(res.Files))

	for i, f := range res.Files {
		if !filepath.IsLocal(f.Name) {
			return ErrOutputPath.With(slog.String("file", f.Name))
		}

		paths[i] = filepath.Join(dir, f.Name)
	}

	for i, f := range res.Files {
		if !t.DryRun {
			if err := writeFile(ctx, paths[i], f); err != nil {
				return err
			}
		}

		fmt.Fprintln(stdout(ctx), paths[i])
	}

	return nil
}

func writeFile(ctx context.Context, path string, f *tangle.File) error {
	content := f.Bytes()

	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, content) {
		log.DebugContext(ctx, "unchanged", slog.String("file", path))

		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), outputDirMode); err != nil {
		return ErrWriteOutput.With(slog.String("file", path)).Wrap(err)
	}

	if err := os.WriteFile(path, content, outputFileMode); err != nil {
		return ErrWriteOutput.With(slog.String("file", path)).Wrap(err)
	}

	log.InfoContext(ctx, "wrote",
		slog.String("file", path),
		slog.Int("lines", len(f.Lines)),
	)

	return nil
}
