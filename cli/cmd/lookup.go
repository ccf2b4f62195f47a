package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ardnew/ct/tangle"
)

// Lookup maps a line of a generated file back to the document line that
// produced it.
type Lookup struct {
	Source   `embed:""`
	Generate `embed:""`

	Location string `arg:"" help:"Generated file location as file:line, e.g. main.go:9." name:"location"`
}

// Run executes the lookup command.
func (l *Lookup) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	file, line, err := ParseLocation(l.Location)
	if err != nil {
		return err
	}

	_, res, err := l.generate(ctx, &l.Source)
	if err != nil {
		return err
	}

	n, err := lookup(res.Map, file, line)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout(ctx), n)

	return err
}

// ParseLocation splits a "file:line" location.
func ParseLocation(loc string) (file string, line int, err error) {
	i := strings.LastIndexByte(loc, ':')
	if i <= 0 {
		return "", 0, ErrLocation.With(slog.String("location", loc))
	}

	line, err = strconv.Atoi(loc[i+1:])
	if err != nil {
		return "", 0, ErrLocation.With(slog.String("location", loc)).Wrap(err)
	}

	return loc[:i], line, nil
}

// lookup resolves file:line, accepting a path to the generated file when its
// base name is a root.
func lookup(m tangle.LineMap, file string, line int) (int, error) {
	if _, ok := m[file]; !ok {
		if base := filepath.Base(file); base != file {
			if _, ok := m[base]; ok {
				file = base
			}
		}
	}

	return m.Lookup(file, line)
}
