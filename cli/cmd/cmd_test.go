package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const hello = "Intro prose.\n" +
	"\n" +
	"``//hello.txt:\n" +
	"Hello\n" +
	"``name``\n" +
	"``\n" +
	"\n" +
	"``name:\n" +
	"World\n" +
	"``\n"

const helloOutput = "Hello\nWorld\n"

// writeSource writes content to a new document in a temporary directory and
// returns its path.
func writeSource(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "doc.ct")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func testContext(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer

	return WithStdout(t.Context(), &buf), &buf
}

func TestSourceName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source   string
		wantName string
		wantDir  string
	}{
		{"", "stdin", "."},
		{"-", "stdin", "."},
		{"docs/notes.ct", "notes.ct", "docs"},
	}

	for _, tt := range tests {
		s := Source{Source: tt.source}

		if got := s.name(); got != tt.wantName {
			t.Errorf("name(%q) = %q, want %q", tt.source, got, tt.wantName)
		}

		if got := s.dir(); got != tt.wantDir {
			t.Errorf("dir(%q) = %q, want %q", tt.source, got, tt.wantDir)
		}
	}
}

func TestSourceParseOrg(t *testing.T) {
	t.Parallel()

	org := strings.Join([]string{
		"* Hello",
		"#+begin_src text <<//hello.txt:>>=",
		"  Hello",
		"  <<name>>",
		"#+end_src",
		"#+begin_src text <<name:>>=",
		"  World",
		"#+end_src",
		"",
	}, "\n")

	s := Source{Source: writeSource(t, org), From: "org"}

	doc, err := s.parse(t.Context())
	if err != nil {
		t.Fatalf("parse() error: %v", err)
	}

	res, err := doc.Tangle(t.Context())
	if err != nil {
		t.Fatalf("Tangle() error: %v", err)
	}

	if len(res.Files) != 1 {
		t.Fatalf("got %d files, want 1", len(res.Files))
	}

	if diff := cmp.Diff(helloOutput, string(res.Files[0].Bytes())); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestSourceMissing(t *testing.T) {
	t.Parallel()

	s := Source{Source: filepath.Join(t.TempDir(), "missing.ct")}

	if _, err := s.parse(t.Context()); !errors.Is(err, ErrReadSource) {
		t.Errorf("parse() error = %v, want %v", err, ErrReadSource)
	}
}

func TestLanguagesFrom(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	user := filepath.Join(dir, "languages.yaml")

	table := "languages:\n" +
		"  - name: ctlang\n" +
		"    extensions: [.ctl]\n" +
		"    line: \"%%\"\n"

	if err := os.WriteFile(user, []byte(table), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := WithLanguagePath(t.Context(), []string{filepath.Join(dir, "missing.yaml"), user})

	langs, err := languagesFrom(ctx)
	if err != nil {
		t.Fatalf("languagesFrom() error: %v", err)
	}

	if _, ok := langs.Lookup("ctlang"); !ok {
		t.Error("user language not merged")
	}

	if _, ok := langs.Lookup("go"); !ok {
		t.Error("built-in language lost")
	}

	if err := os.WriteFile(user, []byte("languages: [unterminated\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := languagesFrom(ctx); !errors.Is(err, ErrLanguages) {
		t.Errorf("languagesFrom() error = %v, want %v", err, ErrLanguages)
	}
}
