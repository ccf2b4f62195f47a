package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestTangleRun(t *testing.T) {
	t.Parallel()

	src := writeSource(t, hello)
	ctx, buf := testContext(t)

	cmd := &Tangle{Source: Source{Source: src}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	out := filepath.Join(filepath.Dir(src), "hello.txt")

	if diff := cmp.Diff(out+"\n", buf.String()); diff != "" {
		t.Errorf("printed paths mismatch (-want +got):\n%s", diff)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(helloOutput, string(got)); diff != "" {
		t.Errorf("generated file mismatch (-want +got):\n%s", diff)
	}
}

func TestTangleOutputDir(t *testing.T) {
	t.Parallel()

	src := writeSource(t, hello)
	dir := filepath.Join(t.TempDir(), "nested", "out")
	ctx, _ := testContext(t)

	cmd := &Tangle{Source: Source{Source: src}, Output: dir}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "hello.txt")); err != nil {
		t.Errorf("generated file not written to output directory: %v", err)
	}
}

func TestTangleDryRun(t *testing.T) {
	t.Parallel()

	src := writeSource(t, hello)
	ctx, buf := testContext(t)

	cmd := &Tangle{Source: Source{Source: src}, DryRun: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	out := filepath.Join(filepath.Dir(src), "hello.txt")

	if !strings.Contains(buf.String(), out) {
		t.Errorf("dry run did not list %s: %q", out, buf.String())
	}

	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("dry run wrote %s", out)
	}
}

func TestTangleUnchanged(t *testing.T) {
	t.Parallel()

	src := writeSource(t, hello)
	out := filepath.Join(filepath.Dir(src), "hello.txt")

	if err := os.WriteFile(out, []byte(helloOutput), 0o644); err != nil {
		t.Fatal(err)
	}

	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := os.Chtimes(out, past, past); err != nil {
		t.Fatal(err)
	}

	ctx, _ := testContext(t)

	cmd := &Tangle{Source: Source{Source: src}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatal(err)
	}

	if !info.ModTime().Equal(past) {
		t.Errorf("unchanged file rewritten: modified %v, want %v", info.ModTime(), past)
	}
}

func TestTangleRejectsEscapingPath(t *testing.T) {
	t.Parallel()

	src := writeSource(t, "``//ok.txt:\ny\n``\n``//..:\nx\n``\n")
	ctx, _ := testContext(t)

	cmd := &Tangle{Source: Source{Source: src}}
	if err := cmd.Run(ctx); !errors.Is(err, ErrOutputPath) {
		t.Fatalf("Run() error = %v, want %v", err, ErrOutputPath)
	}

	if _, err := os.Stat(filepath.Join(filepath.Dir(src), "ok.txt")); !os.IsNotExist(err) {
		t.Error("files written despite an invalid output path")
	}
}

func TestTangleParseError(t *testing.T) {
	t.Parallel()

	src := writeSource(t, "``//a.txt:\nunterminated\n")
	ctx, buf := testContext(t)

	cmd := &Tangle{Source: Source{Source: src}}
	if err := cmd.Run(ctx); err == nil {
		t.Fatal("Run() expected error for an unterminated chunk")
	}

	if buf.Len() != 0 {
		t.Errorf("printed output on error: %q", buf.String())
	}
}
