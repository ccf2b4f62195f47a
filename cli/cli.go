package cli

import (
	"context"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ct/cli/cmd"
	"github.com/ardnew/ct/pkg"
)

// CLI is the top-level command-line interface for ct.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Tangle  cmd.Tangle  `cmd:"" default:"withargs" help:"Write the files declared in a literate document"`
	Check   cmd.Check   `cmd:""                    help:"Report generated files that differ from the document"`
	Lookup  cmd.Lookup  `cmd:""                    help:"Find the document line behind a generated line"`
	Tree    cmd.Tree    `cmd:""                    help:"Print the chunk tree of a literate document"`
	Browse  cmd.Browse  `cmd:""                    help:"Explore the chunk tree interactively"`
	Convert cmd.Convert `cmd:""                    help:"Convert between literate notations"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration files"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`
}

// Run executes the ct CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version":               pkg.Version(),
		cmd.ConfigIdentifier:    configFilePath,
		cmd.LanguagesIdentifier: configPath(baseLanguages),
		cmd.CacheIdentifier:     cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.DefaultEnvars(strings.TrimSuffix(pkg.EnvPrefix(), "_")),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(loadConfig, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// The context provider reads ctx when a command runs, so values added
	// here reach it.
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithLanguagePath(ctx, languagePath())

	cli.Log.start(ctx)

	// no-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(&cli)
}
