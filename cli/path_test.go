package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ardnew/ct/pkg"
)

func TestLanguagePath(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing")

	t.Setenv(pkg.EnvPrefix()+"CONFIG_PATH", missing+string(os.PathListSeparator)+dir)

	files := languagePath()

	if !slices.Contains(files, filepath.Join(dir, baseLanguages)) {
		t.Errorf("languagePath() = %v, missing %s", files, dir)
	}

	if slices.Contains(files, filepath.Join(missing, baseLanguages)) {
		t.Errorf("languagePath() = %v, includes missing directory", files)
	}
}

func TestConfigPath(t *testing.T) {
	if got, want := configPath(baseConfig), filepath.Join(configDir(), baseConfig); got != want {
		t.Errorf("configPath() = %q, want %q", got, want)
	}

	if filepath.Base(configDir()) != basePrefix() {
		t.Errorf("configDir() = %q, want base %q", configDir(), basePrefix())
	}

	if basePrefix() == "" {
		t.Error("basePrefix() is empty")
	}
}
