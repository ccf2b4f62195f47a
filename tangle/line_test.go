package tangle

import "testing"

func TestIsChunkBoundary(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"``", true},
		{"``  ", true},
		{"`` #go", true},
		{"``x", false},
		{"``//a.go:", false},
		{"  ``", false},
		{"`", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := IsChunkBoundary(tt.line); got != tt.want {
				t.Errorf("IsChunkBoundary(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestIsDeclarationOpen(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"``//a.go:", true},
		{"``a", true},
		{"``../b:", true},
		{"``", false},
		{"`` #py", false},
		{"x ``a``", false},
		{"prose", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := IsDeclarationOpen(tt.line); got != tt.want {
				t.Errorf("IsDeclarationOpen(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestIsReference(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"``a``", true},
		{"    ``.``", true},
		{"x := ``value``", true},
		{"````", false},
		{"``", false},
		{"plain text", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := IsReference(tt.line); got != tt.want {
				t.Errorf("IsReference(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestExtractPath(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"``//a.go:", "//a.go:"},
		{"``//a.py: A #py", "//a.py: A"},
		{"``//a.py: A #py\n", "//a.py: A"},
		{"    ``body``", "body"},
		{"``.``", "."},
		{"``", ""},
		{"no delimiter", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := ExtractPath(tt.line); got != tt.want {
				t.Errorf("ExtractPath(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestExtractTag(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"``//a.py: A #py", "py"},
		{"`` #go", "go"},
		{"``//a.go:", ""},
		{"``x # not a tag``", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := ExtractTag(tt.line); got != tt.want {
				t.Errorf("ExtractTag(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestLeadingSpace(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  x", "  "},
		{"\t\tx", "\t\t"},
		{"x", ""},
		{"   ", "   "},
		{"", ""},
	}

	for _, tt := range tests {
		if got := leadingSpace(tt.in); got != tt.want {
			t.Errorf("leadingSpace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
