// Package cmd implements the ct subcommands.
//
// Every command that reads a literate document embeds [Source], and commands
// that produce generated files embed [Generate] so that line numbers reported
// by lookup and browse agree with the files written by tangle.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"

	// LanguagesIdentifier is the kong variable identifier containing the path
	// to the user language table written by init.
	LanguagesIdentifier = "languages"
)
