// Package cli contains the command line interface for ct.
//
// # Commands
//
// The default command is tangle, so a bare source file writes every file it
// declares next to it:
//
//	ct notes.ct
//	ct tangle --header -o build notes.ct
//	ct check notes.ct
//	ct lookup notes.ct main.go:42
//	ct tree -f yaml notes.ct
//	ct browse notes.ct
//	ct convert -F org -t ct notes.org
//
// # Configuration
//
// Flags may be set in a YAML file (see [loadConfig]) located in the user
// configuration directory, which ct init creates from the current flag values:
//
//	log-level: info
//	tangle:
//	  header: true
//
// Every flag may also be set with an environment variable named after it,
// such as CT_LOG_LEVEL.
//
// # Language tables
//
// The comment syntax and function detection used for headers and doc
// comments come from a built-in table. A languages.yaml file in the
// configuration directory, and in each directory listed in CT_CONFIG_PATH,
// is merged over it in that order.
//
// # Profiling
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o ct .
//	ct --pprof-mode=cpu notes.ct
package cli
