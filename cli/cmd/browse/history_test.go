package browse

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistoryAdd(t *testing.T) {
	h := NewHistory("")

	for _, e := range []Entry{
		{"alpha", modePath},
		{"alpha", modePath},
		{"ls", modeCtrl},
		{"  ", modePath},
		{"alpha", modePath},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q) error: %v", e.Line, err)
		}
	}

	want := []Entry{{"ls", modeCtrl}, {"alpha", modePath}}
	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	if _, err := h.Entry(2); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Entry(2) error = %v, want %v", err, ErrOutOfBounds)
	}
}

func TestHistoryPersist(t *testing.T) {
	path := HistoryPath(t.TempDir())

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() of missing file error: %v", err)
	}

	for _, e := range []Entry{
		{"//a.go", modePath},
		{"roots", modeCtrl},
		{"//a.go", modePath},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q) error: %v", e.Line, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	if diff := cmp.Diff("C:roots\nP://a.go\n", string(data)); diff != "" {
		t.Errorf("file mismatch (-want +got):\n%s", diff)
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if diff := cmp.Diff(h.Entries(), loaded.Entries()); diff != "" {
		t.Errorf("loaded entries mismatch (-want +got):\n%s", diff)
	}
}

func TestHistoryPath(t *testing.T) {
	if got := HistoryPath(""); got != "" {
		t.Errorf("HistoryPath(\"\") = %q, want empty", got)
	}

	if got, want := HistoryPath("dir"), filepath.Join("dir", baseHistory); got != want {
		t.Errorf("HistoryPath() = %q, want %q", got, want)
	}
}

func TestDecodeEntry(t *testing.T) {
	tests := map[string]Entry{
		"P:alpha": {"alpha", modePath},
		"C:ls":    {"ls", modeCtrl},
		"bare":    {"bare", modePath},
	}

	for line, want := range tests {
		if got := decodeEntry(line); got != want {
			t.Errorf("decodeEntry(%q) = %+v, want %+v", line, got, want)
		}
	}
}
