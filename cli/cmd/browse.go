package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/ct/cli/cmd/browse"
	"github.com/ardnew/ct/log"
)

// Browse explores the chunk tree of a literate document interactively.
type Browse struct {
	Source   `embed:""`
	Generate `embed:""`
}

// Run executes the browse command.
func (b *Browse) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	doc, res, err := b.generate(ctx, &b.Source)
	if err != nil {
		return err
	}

	var dir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		dir = ktx.Model.Vars()[CacheIdentifier]
	}

	if dir != "" {
		if err := os.MkdirAll(dir, outputDirMode); err != nil {
			log.WarnContext(ctx, "history disabled",
				slog.String("dir", dir),
				slog.Any("error", err),
			)

			dir = ""
		}
	}

	return browse.Run(ctx, doc, res, browse.HistoryPath(dir), log.Default())
}
