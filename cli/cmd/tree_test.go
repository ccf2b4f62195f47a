package cmd

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTreeRun(t *testing.T) {
	t.Parallel()

	src := writeSource(t, hello)

	tests := []struct {
		format string
		indent int
		want   []string
	}{
		{"text", 2, []string{"//hello.txt [@3]\n  name [@8]\n"}},
		{"text", 4, []string{"//hello.txt [@3]\n    name [@8]\n"}},
		{"json", 2, []string{`"name": "hello.txt"`, `"name": "name"`}},
		{"yaml", 2, []string{"name: hello.txt", "name: name"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			ctx, buf := testContext(t)

			cmd := &Tree{Source: Source{Source: src}, Format: tt.format, Indent: tt.indent}
			if err := cmd.Run(ctx); err != nil {
				t.Fatalf("Run() error: %v", err)
			}

			if tt.format == "text" {
				if diff := cmp.Diff(tt.want[0], buf.String()); diff != "" {
					t.Errorf("Run() mismatch (-want +got):\n%s", diff)
				}

				return
			}

			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output %q does not contain %q", buf.String(), w)
				}
			}
		})
	}
}
