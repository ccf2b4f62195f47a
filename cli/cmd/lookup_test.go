package cmd

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ardnew/ct/tangle"
)

func TestParseLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		loc      string
		wantFile string
		wantLine int
		wantErr  bool
	}{
		{loc: "main.go:9", wantFile: "main.go", wantLine: 9},
		{loc: "dir/a:b.go:12", wantFile: "dir/a:b.go", wantLine: 12},
		{loc: "main.go", wantErr: true},
		{loc: ":3", wantErr: true},
		{loc: "main.go:x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.loc, func(t *testing.T) {
			t.Parallel()

			file, line, err := ParseLocation(tt.loc)
			if tt.wantErr {
				if !errors.Is(err, ErrLocation) {
					t.Errorf("ParseLocation(%q) error = %v, want %v", tt.loc, err, ErrLocation)
				}

				return
			}

			if err != nil || file != tt.wantFile || line != tt.wantLine {
				t.Errorf("ParseLocation(%q) = (%q, %d, %v), want (%q, %d, nil)",
					tt.loc, file, line, err, tt.wantFile, tt.wantLine)
			}
		})
	}
}

func TestLookupRun(t *testing.T) {
	t.Parallel()

	src := writeSource(t, hello)

	tests := []struct {
		location string
		want     string
		wantErr  error
	}{
		{location: "hello.txt:1", want: "4\n"},
		{location: "hello.txt:2", want: "9\n"},
		{location: filepath.Join("out", "hello.txt") + ":2", want: "9\n"},
		{location: "hello.txt:3", wantErr: tangle.ErrLineRange},
		{location: "other.txt:1", wantErr: tangle.ErrUnknownFile},
		{location: "hello.txt", wantErr: ErrLocation},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			t.Parallel()

			ctx, buf := testContext(t)

			cmd := &Lookup{Source: Source{Source: src}, Location: tt.location}

			err := cmd.Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}

			if buf.String() != tt.want {
				t.Errorf("Run() printed %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
