package tangle

import (
	"log/slog"
	"strings"
)

// SegmentKind identifies one step of a path expression.
type SegmentKind int

const (
	SegRootSwitch SegmentKind = iota // rootswitch
	SegRoot                          // root
	SegSelf                          // self
	SegUp                            // up
	SegChild                         // child
	SegSearch                        // search
)

func (k SegmentKind) String() string {
	switch k {
	case SegRootSwitch:
		return "rootswitch"
	case SegRoot:
		return "root"
	case SegSelf:
		return "self"
	case SegUp:
		return "up"
	case SegChild:
		return "child"
	case SegSearch:
		return "search"
	default:
		return "unknown"
	}
}

// Segment is one typed step of a parsed path.
//
// Name is set for SegRootSwitch, SegChild and SegSearch. Alias is only set
// for SegRootSwitch.
type Segment struct {
	Kind  SegmentKind
	Name  string
	Alias string
}

// Path is a parsed path expression.
type Path struct {
	Raw      string
	Segments []Segment
	// Decl is true if the path ended in [DeclMarker], or if it is a bare
	// root switch carrying an alias.
	Decl bool
}

// RootQualified reports whether the path names its root explicitly and can
// therefore be resolved without a cursor.
func (p Path) RootQualified() bool {
	return len(p.Segments) > 0 && p.Segments[0].Kind == SegRootSwitch
}

// Empty reports whether resolving the path leaves the cursor in place.
func (p Path) Empty() bool {
	for _, s := range p.Segments {
		if s.Kind != SegSelf {
			return false
		}
	}

	return true
}

type tokenKind int

const (
	tokSlash tokenKind = iota
	tokWord
)

type token struct {
	kind tokenKind
	text string
}

// tokenize splits a path into slashes and the words between them.
func tokenize(s string) []token {
	var toks []token

	for len(s) > 0 {
		if s[0] == '/' {
			toks = append(toks, token{kind: tokSlash, text: "/"})
			s = s[1:]

			continue
		}

		end := strings.IndexByte(s, '/')
		if end < 0 {
			end = len(s)
		}

		if w := strings.TrimSpace(s[:end]); w != "" {
			toks = append(toks, token{kind: tokWord, text: w})
		}

		s = s[end:]
	}

	return toks
}

type pathParser struct {
	raw  string
	toks []token
	pos  int
}

// ParsePath parses a chunk path such as "//out.go: O", "/a/b:", "../c" or
// "*name" into its typed segments.
func ParsePath(s string) (Path, error) {
	raw := strings.TrimSpace(s)
	body, decl := isDeclaration(raw)

	p := &pathParser{raw: raw, toks: tokenize(body)}

	segs, err := p.parse()
	if err != nil {
		return Path{}, err
	}

	if len(segs) == 1 && segs[0].Kind == SegRootSwitch && segs[0].Alias != "" {
		decl = true
	}

	return Path{Raw: raw, Segments: segs, Decl: decl}, nil
}

func (p *pathParser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}

	return p.toks[p.pos], true
}

func (p *pathParser) accept(kind tokenKind) bool {
	if t, ok := p.peek(); ok && t.kind == kind {
		p.pos++

		return true
	}

	return false
}

func (p *pathParser) parse() ([]Segment, error) {
	var segs []Segment

	if p.accept(tokSlash) {
		if p.accept(tokSlash) {
			seg, err := p.rootSwitch()
			if err != nil {
				return nil, err
			}

			segs = append(segs, seg)
		} else {
			segs = append(segs, Segment{Kind: SegRoot})
		}
	}

	for {
		t, ok := p.peek()
		if !ok {
			return segs, nil
		}

		if t.kind == tokSlash {
			p.pos++

			continue
		}

		seg, err := p.segment()
		if err != nil {
			return nil, err
		}

		segs = append(segs, seg)
	}
}

func (p *pathParser) rootSwitch() (Segment, error) {
	t, ok := p.peek()
	if !ok || t.kind != tokWord {
		return Segment{}, ErrUnresolvedRoot.With(slog.String("path", p.raw))
	}

	p.pos++

	name, alias, _ := strings.Cut(t.text, DeclMarker)
	name = strings.TrimSpace(name)
	alias = strings.TrimSpace(alias)

	if name == "" {
		return Segment{}, ErrUnresolvedRoot.With(slog.String("path", p.raw))
	}

	return Segment{Kind: SegRootSwitch, Name: name, Alias: alias}, nil
}

func (p *pathParser) segment() (Segment, error) {
	t := p.toks[p.pos]
	p.pos++

	switch word := t.text; {
	case word == ".":
		return Segment{Kind: SegSelf}, nil

	case word == "..":
		return Segment{Kind: SegUp}, nil

	case word == "*":
		// "*/name" form
		if !p.accept(tokSlash) {
			return Segment{}, ErrInvalidPath.With(slog.String("path", p.raw))
		}

		n, ok := p.peek()
		if !ok || n.kind != tokWord {
			return Segment{}, ErrInvalidPath.With(slog.String("path", p.raw))
		}

		p.pos++

		return searchSegment(n.text, p.raw)

	case strings.HasPrefix(word, "*"):
		return searchSegment(word[1:], p.raw)

	case strings.HasPrefix(word, "."):
		return Segment{}, ErrGhostEntry.With(slog.String("path", p.raw))

	default:
		return Segment{Kind: SegChild, Name: word}, nil
	}
}

func searchSegment(name, raw string) (Segment, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, ".") {
		return Segment{}, ErrInvalidPath.With(slog.String("path", raw))
	}

	return Segment{Kind: SegSearch, Name: name}, nil
}
