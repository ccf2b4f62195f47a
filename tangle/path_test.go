package tangle

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		segs []Segment
		decl bool
	}{
		{
			name: "root declaration",
			in:   "//a.go:",
			segs: []Segment{{Kind: SegRootSwitch, Name: "a.go"}},
			decl: true,
		},
		{
			name: "root with alias",
			in:   "//a.py: A",
			segs: []Segment{{Kind: SegRootSwitch, Name: "a.py", Alias: "A"}},
			decl: true,
		},
		{
			name: "root switch then child",
			in:   "//a.py/x",
			segs: []Segment{
				{Kind: SegRootSwitch, Name: "a.py"},
				{Kind: SegChild, Name: "x"},
			},
		},
		{
			name: "current root",
			in:   "/a/b:",
			segs: []Segment{
				{Kind: SegRoot},
				{Kind: SegChild, Name: "a"},
				{Kind: SegChild, Name: "b"},
			},
			decl: true,
		},
		{
			name: "parent",
			in:   "../c",
			segs: []Segment{{Kind: SegUp}, {Kind: SegChild, Name: "c"}},
		},
		{
			name: "self",
			in:   ".",
			segs: []Segment{{Kind: SegSelf}},
		},
		{
			name: "search",
			in:   "*x",
			segs: []Segment{{Kind: SegSearch, Name: "x"}},
		},
		{
			name: "search separated",
			in:   "a/*/x/y:",
			segs: []Segment{
				{Kind: SegChild, Name: "a"},
				{Kind: SegSearch, Name: "x"},
				{Kind: SegChild, Name: "y"},
			},
			decl: true,
		},
		{
			name: "empty",
			in:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePath(tt.in)
			if err != nil {
				t.Fatalf("ParsePath(%q) error: %v", tt.in, err)
			}

			if diff := cmp.Diff(tt.segs, p.Segments); diff != "" {
				t.Errorf("ParsePath(%q) segments mismatch (-want +got):\n%s", tt.in, diff)
			}

			if p.Decl != tt.decl {
				t.Errorf("ParsePath(%q).Decl = %v, want %v", tt.in, p.Decl, tt.decl)
			}
		})
	}
}

func TestParsePathErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"//", ErrUnresolvedRoot},
		{"//: A", ErrUnresolvedRoot},
		{"a/.0", ErrGhostEntry},
		{"*", ErrInvalidPath},
		{"*.", ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParsePath(tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParsePath(%q) error = %v, want %v", tt.in, err, tt.want)
			}
		})
	}
}

func TestPathEmpty(t *testing.T) {
	for _, in := range []string{"", ".", "./."} {
		p, err := ParsePath(in)
		if err != nil {
			t.Fatalf("ParsePath(%q) error: %v", in, err)
		}

		if !p.Empty() {
			t.Errorf("ParsePath(%q).Empty() = false, want true", in)
		}
	}

	p, err := ParsePath("a")
	if err != nil {
		t.Fatal(err)
	}

	if p.Empty() {
		t.Error(`ParsePath("a").Empty() = true, want false`)
	}
}
