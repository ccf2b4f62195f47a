package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/ct/tangle"
)

type initCLI struct {
	LogLevel string `default:"warn"`
	Pretty   bool
	Header   bool `hidden:""`
}

func initContext(t *testing.T, vars kong.Vars, args ...string) context.Context {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, vars)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	ctx, _ := testContext(t)

	return WithContext(ctx, ktx)
}

func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		force    bool
		existing bool
		wantErr  bool
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, existing: true},
		{name: "fail_without_force", existing: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			confPath := filepath.Join(dir, "config.yaml")
			langPath := filepath.Join(dir, "languages.yaml")

			if tt.existing {
				if err := os.WriteFile(confPath, []byte("existing content"), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			ctx := initContext(t, kong.Vars{
				ConfigIdentifier:    confPath,
				LanguagesIdentifier: langPath,
			}, "--log-level=debug")

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr {
				if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, ErrFileExists) {
					t.Errorf("Run() error = %v, want %v", err, ErrFileExists)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(content, &got); err != nil {
				t.Fatalf("generated config is not valid YAML: %v", err)
			}

			want := map[string]any{"log-level": "debug", "pretty": false}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}

			langs, err := os.ReadFile(langPath)
			if err != nil {
				t.Fatal(err)
			}

			if _, err := tangle.ParseLanguages(ctx, strings.NewReader(string(langs))); err != nil {
				t.Errorf("generated language table is invalid: %v", err)
			}
		})
	}
}

func TestInitFlagValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"empty_string", "", nil},
		{"string", "text", "text"},
		{"empty_slice", []string{}, nil},
		{"slice", []string{"a"}, []string{"a"}},
		{"bool", false, false},
		{"int", 5, 5},
		{"stringer", tangle.LineOpen, tangle.LineOpen.String()},
		{"other", struct{ A int }{1}, "{1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, flagValue(tt.in)); diff != "" {
				t.Errorf("flagValue(%v) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}
