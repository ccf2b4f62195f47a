package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// loadConfig is a [kong.ConfigurationLoader] reading YAML configuration
// files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(loadConfig, "/path/to/config.yaml")
//
// Top-level keys name global flags. A key naming a command holds a mapping
// of that command's flags, which take precedence over top-level keys of the
// same name. Keys may spell flag names with hyphens or underscores:
//
//	log-level: debug
//	log_pretty: false
//	tangle:
//	  header: true
//	  max-depth: 200
//
// Command-line flags override config file values. An empty or malformed file
// configures nothing.
func loadConfig(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return config{}, nil
	}

	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil || m == nil {
		return config{}, nil
	}

	return config(normalize(m)), nil
}

// config implements [kong.Resolver] for YAML configuration files.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if parent != nil && parent.Command != nil {
		if section, ok := r[parent.Command.Name].(config); ok {
			if value, ok := section.lookup(flag.Name); ok {
				return value, nil
			}
		}
	}

	if value, ok := r.lookup(flag.Name); ok {
		return value, nil
	}

	return nil, nil
}

// lookup returns the value of a flag named with hyphens, trying the
// underscore spelling as well.
func (r config) lookup(name string) (any, bool) {
	if value, ok := r[name]; ok {
		return value, true
	}

	value, ok := r[strings.ReplaceAll(name, "-", "_")]

	return value, ok
}

// normalize converts decoded YAML values to those kong accepts: numbers
// become strings, and nested mappings become configs.
func normalize(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))

	for key, val := range m {
		out[key] = normalizeValue(val)
	}

	return out
}

func normalizeValue(val any) any {
	switch v := val.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case map[string]any:
		return config(normalize(v))
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = normalizeValue(e)
		}

		return out
	default:
		return v
	}
}
