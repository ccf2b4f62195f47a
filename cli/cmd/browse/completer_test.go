package browse

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/ct/tangle"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"empty", "", 0, "", 0, 0},
		{"single word", "alpha", 5, "alpha", 0, 5},
		{"mid word", "alpha", 2, "alpha", 0, 5},
		{"after separator", "//a.go/ma", 9, "ma", 7, 9},
		{"on separator", "alpha/", 6, "", 6, 6},
		{"search marker", "*gam", 4, "gam", 1, 4},
		{"command argument", "lookup a.go:3", 13, "a.go:3", 7, 13},
		{"cursor past end", "beta", 10, "beta", 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		input string
		start int
		want  string
	}{
		{"alpha", 0, ""},
		{"//a.go/ma", 7, "//a.go/"},
		{"alpha/gam", 6, "alpha/"},
		{"lookup a.go", 7, ""},
		{"x ../be", 5, "../"},
	}

	for _, tt := range tests {
		if got := parentPath(tt.input, tt.start); got != tt.want {
			t.Errorf("parentPath(%q, %d) = %q, want %q", tt.input, tt.start, got, tt.want)
		}
	}
}

func TestPathCandidates(t *testing.T) {
	m := testModel(t)

	tests := []struct {
		name   string
		parent string
		want   []string
	}{
		{"current chunk and roots", "", []string{"alpha", "beta", "a.go", "A"}},
		{"roots", "//", []string{"a.go", "A"}},
		{"child", "alpha/", []string{"gamma"}},
		{"qualified", "//a.go/", []string{"alpha", "beta"}},
		{"search", "*", []string{"alpha", "beta", "gamma"}},
		{"search below", "alpha/*", []string{"gamma"}},
		{"unknown", "missing/", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, c := range pathCandidates(m.doc, m.cur, tt.parent) {
				got = append(got, c.name)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("pathCandidates(%q) mismatch (-want +got):\n%s", tt.parent, diff)
			}
		})
	}
}

func TestComputeMatches(t *testing.T) {
	m := testModel(t)

	m.input.SetValue("//a.go/bt")
	m.input.CursorEnd()

	matches, _, start, end := m.computeMatches()
	if start != 7 || end != 9 {
		t.Errorf("word bounds = (%d, %d), want (7, 9)", start, end)
	}

	if len(matches) != 1 || matches[0].Str != "beta" {
		t.Errorf("matches = %v, want [beta]", matches)
	}

	m.mode = modeCtrl
	m.input.SetValue("ro")
	m.input.CursorEnd()

	matches, _, _, _ = m.computeMatches()
	if len(matches) == 0 || matches[0].Str != "roots" {
		t.Errorf("ctrl matches = %v, want roots first", matches)
	}

	m.input.SetValue("lookup a")
	m.input.CursorEnd()

	matches, _, _, _ = m.computeMatches()
	if len(matches) != 1 || matches[0].Str != "a.go" {
		t.Errorf("lookup matches = %v, want [a.go]", matches)
	}

	m.input.SetValue("")

	if matches, _, _, _ = m.computeMatches(); matches != nil {
		t.Errorf("empty input matches = %v, want none", matches)
	}
}

func TestRenderCandidateBar(t *testing.T) {
	m := testModel(t)

	m.input.SetValue("//")
	m.input.CursorEnd()
	refreshMatches(&m, false)

	if bar := renderCandidateBar(m.matches, m.candidates, -1, false, 80); bar == "" {
		t.Error("expected a candidate bar")
	}

	if bar := renderCandidateBar(nil, nil, -1, false, 80); bar != "" {
		t.Errorf("empty matches rendered %q", bar)
	}
}

func TestCandidateMarks(t *testing.T) {
	ctx := context.Background()

	doc, err := tangle.ParseString(ctx, "``//m.txt: M\n"+
		"``.``\n"+
		"``\n"+
		"``\n"+
		"``helper``\n"+
		"``\n"+
		"``helper:\n"+
		"h\n"+
		"``\n"+
		"``//other.txt/x:\n"+
		"x\n"+
		"``\n")
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}

	root, _ := doc.Root("m.txt")

	got := map[string]string{}
	for _, c := range pathCandidates(doc, root, "") {
		got[c.name] = c.mark
	}

	want := map[string]string{
		"helper":    markPromoted,
		"m.txt":     "",
		"other.txt": markUndeclared,
		"M":         markAlias,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("marks mismatch (-want +got):\n%s", diff)
	}

	matches := fuzzy.FindFrom("todo", candidates{{name: "todo", mark: markUndeclared}})

	bar := renderCandidateBar(matches, candidates{{name: "todo", mark: markUndeclared}}, -1, false, 80)
	if !strings.Contains(bar, markUndeclared) {
		t.Errorf("bar %q is missing the undeclared marker", bar)
	}
}
