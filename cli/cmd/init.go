package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/ct/log"
	"github.com/ardnew/ct/profile"
	"github.com/ardnew/ct/tangle"
)

const configFileMode os.FileMode = 0o600

// Init writes a configuration file holding the current flag values, and a
// copy of the built-in language table for editing.
type Init struct {
	Force bool `help:"Overwrite existing files" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	vars := ktx.Model.Vars()

	confPath, ok := vars[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	conf, err := yaml.MarshalContext(ctx, i.flagValues(ktx))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	if err := i.write(ctx, confPath, conf); err != nil {
		return err
	}

	if langPath, ok := vars[LanguagesIdentifier]; ok && langPath != "" {
		if err := i.write(ctx, langPath, tangle.DefaultLanguagesYAML()); err != nil {
			return err
		}
	}

	return nil
}

func (i *Init) write(ctx context.Context, path string, content []byte) error {
	_, err := os.Stat(path)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", path)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	if err := os.MkdirAll(filepath.Dir(path), outputDirMode); err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	if err := os.WriteFile(path, content, configFileMode); err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	log.InfoContext(ctx, "initialized configuration file", slog.String("path", path))

	fmt.Fprintln(stdout(ctx), path)

	return nil
}

// flagValues collects every non-empty global flag value keyed by flag name.
func (i *Init) flagValues(ktx *kong.Context) yaml.MapSlice {
	var out yaml.MapSlice

	prefixIgnore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val := flagValue(ktx.FlagValue(flag)); val != nil {
			out = append(out, yaml.MapItem{Key: flag.Name, Value: val})
		}
	}

	return out
}

// flagValue returns the value written to the configuration file for a flag,
// or nil if the flag is unset.
func flagValue(val any) any {
	switch v := val.(type) {
	case nil:
		return nil

	case string:
		if v == "" {
			return nil
		}

		return v

	case []string:
		if len(v) == 0 {
			return nil
		}

		return v

	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return v

	case fmt.Stringer:
		return v.String()

	default:
		return fmt.Sprint(v)
	}
}
