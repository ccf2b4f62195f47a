//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// Version is the semantic version of the ct module embedded at build time.
//
//go:embed VERSION
var version string

// Version returns the module version without surrounding whitespace.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the command name. It also names the configuration and cache
	// directories and prefixes environment variables.
	Name = "ct"
	// Description is a short summary used in help output.
	Description = "Literate-programming tangle engine"
)

// EnvPrefix returns the prefix of environment variables read by the
// command, such as CT_CONFIG_PATH.
func EnvPrefix() string { return strings.ToUpper(Name) + "_" }
