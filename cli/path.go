package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/mung"

	"github.com/ardnew/ct/pkg"
)

const (
	baseConfig    = "config.yaml"
	baseLanguages = "languages.yaml"
)

var defaultDirMode os.FileMode = 0o700

// basePrefix returns the name of the configuration and cache directories.
//
// It is the base name of the executable unless it matches one of the
// following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with ct
//   - "^\.+" (dot-prefixed names): remove the dot prefix
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = strings.TrimSuffix(filepath.Base(id), filepath.Ext(id))

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): pkg.Name,
			regexp.MustCompile(`^\.+`):             "",
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		if id == "" {
			id = pkg.Name
		}

		return id
	},
)

// userDir joins the directory returned by base with basePrefix, falling back
// to fallback under the home directory, then to the working directory.
func userDir(base func() (string, error), fallback string) string {
	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, basePrefix())
}

var (
	configDir = sync.OnceValue(func() string { return userDir(os.UserConfigDir, ".config") })
	cacheDir  = sync.OnceValue(func() string { return userDir(os.UserCacheDir, ".cache") })
)

// configPath joins the configuration directory with elem.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// configPathVar is the environment variable listing additional directories
// searched for language tables.
func configPathVar() string { return pkg.EnvPrefix() + "CONFIG_PATH" }

// languagePath returns the language table files merged over the built-in
// table, lowest priority first: the one in the configuration directory, then
// one in each existing directory listed in the configuration path variable.
func languagePath() []string {
	dirs := mung.Make(
		mung.WithSubjectItems(filepath.SplitList(os.Getenv(configPathVar()))...),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(configDir()),
		mung.WithFilter(isDir),
	).String()

	var files []string

	for _, dir := range filepath.SplitList(dirs) {
		if !isDir(dir) {
			continue
		}

		files = append(files, filepath.Join(dir, baseLanguages))
	}

	return files
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	if err := os.MkdirAll(configDir(), defaultDirMode); err != nil {
		return err
	}

	return os.MkdirAll(cacheDir(), defaultDirMode)
}
