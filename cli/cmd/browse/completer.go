package browse

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/ct/tangle"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "ls", "roots", "lookup", "where", "clear", "quit"}

// isWordBoundary reports whether r ends a completion word. Path separators
// and the search marker are boundaries; dots and hyphens are not, since they
// commonly appear in chunk and file names.
func isWordBoundary(r rune) bool {
	switch r {
	case '/', '*', ' ', '\t':
		return true
	}

	return false
}

// wordBounds returns the word at the cursor and its byte boundaries within
// input. The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the path expression leading up to the word starting at
// wordStart, limited to the whitespace-delimited token containing it. For
// "//out.go/ma" with the word "ma" it returns "//out.go/".
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]

	if i := strings.LastIndexAny(prefix, " \t"); i >= 0 {
		prefix = prefix[i+1:]
	}

	return prefix
}

// candidate is a completion with the marker shown after it in the candidate
// bar.
type candidate struct {
	name string
	mark string
}

// Candidate markers.
const (
	markUndeclared = "?" // referenced but never declared
	markPromoted   = "." // exited from a ghost chunk
	markAlias      = "@"
)

// candidates implements [fuzzy.Source].
type candidates []candidate

func (c candidates) String(i int) string { return c[i].name }
func (c candidates) Len() int            { return len(c) }

func plain(names []string) candidates {
	out := make(candidates, len(names))
	for i, n := range names {
		out[i] = candidate{name: n}
	}

	return out
}

func nodeCandidate(doc *tangle.Document, id tangle.NodeID) candidate {
	c := candidate{name: doc.Name(id)}

	switch {
	case !doc.Declared(id):
		c.mark = markUndeclared
	case doc.Via(id).Valid():
		c.mark = markPromoted
	}

	return c
}

// visible returns the named, non-ghost children of id.
func visible(doc *tangle.Document, id tangle.NodeID) candidates {
	var out candidates

	for _, c := range doc.Children(id) {
		if !doc.IsGhost(c) {
			out = append(out, nodeCandidate(doc, c))
		}
	}

	return out
}

// descendants returns every named node below id, sorted by name and without
// duplicate names.
func descendants(doc *tangle.Document, id tangle.NodeID) candidates {
	var out candidates

	var visit func(tangle.NodeID)

	visit = func(id tangle.NodeID) {
		for _, c := range doc.Children(id) {
			if !doc.IsGhost(c) {
				out = append(out, nodeCandidate(doc, c))
			}

			visit(c)
		}
	}

	visit(id)
	slices.SortStableFunc(out, func(a, b candidate) int {
		return strings.Compare(a.name, b.name)
	})

	return slices.CompactFunc(out, func(a, b candidate) bool {
		return a.name == b.name
	})
}

// rootNames returns every root followed by every alias.
func rootNames(doc *tangle.Document) candidates {
	var out candidates

	for _, r := range doc.Roots() {
		out = append(out, nodeCandidate(doc, r))
	}

	for alias := range doc.Aliases() {
		out = append(out, candidate{name: alias, mark: markAlias})
	}

	return out
}

// pathCandidates returns the completions valid after parent, a path
// expression relative to cur.
func pathCandidates(doc *tangle.Document, cur tangle.NodeID, parent string) candidates {
	switch {
	case parent == "":
		if !cur.Valid() {
			return nil
		}

		return append(visible(doc, cur), rootNames(doc)...)

	case parent == "//":
		return rootNames(doc)

	case strings.HasSuffix(parent, "*"):
		base := strings.TrimSuffix(strings.TrimSuffix(parent, "*"), "/")
		if base == "" {
			return descendants(doc, cur)
		}

		id, err := doc.Find(cur, base)
		if err != nil {
			return nil
		}

		return descendants(doc, id)
	}

	id, err := doc.Find(cur, strings.TrimSuffix(parent, "/"))
	if err != nil {
		return nil
	}

	return visible(doc, id)
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. An empty word after a separator lists every candidate; an empty
// word at the start of a token lists none, leaving room for the hint line.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	cands candidates,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, ws, we := wordBounds(input, m.input.Position())
	wordStart, wordEnd = ws, we
	parent := parentPath(input, wordStart)

	switch {
	case m.mode == modeCtrl && strings.TrimSpace(input[:wordStart]) == "":
		cands = plain(ctrlCommands)

	case m.mode == modeCtrl:
		if m.result != nil && strings.HasPrefix(strings.TrimSpace(input), "lookup") {
			cands = plain(m.result.Map.Files())
		}

	default:
		cands = pathCandidates(m.doc, m.cur, parent)
	}

	if len(cands) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	if word == "" {
		if parent == "" {
			return nil, nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(cands))
		for i, c := range cands {
			matches[i] = fuzzy.Match{Str: c.name, Index: i}
		}

		return matches, cands, wordStart, wordEnd
	}

	return fuzzy.FindFrom(word, cands), cands, wordStart, wordEnd
}

// renderCandidateBar lays out the matches on one line, each followed by its
// chunk marker, and cuts the line short with an ellipsis at width.
func renderCandidateBar(
	matches fuzzy.Matches,
	cands candidates,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const gap = "  "

	more := hintStyle.Render("...")

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		var mark string
		if match.Index < len(cands) {
			mark = cands[match.Index].mark
		}

		entry := renderCandidate(match, mark, tabActive && i == suggIdx)
		if i > 0 {
			entry = gap + entry
		}

		w := lipgloss.Width(entry)
		if i > 0 && used+w+lipgloss.Width(more) > width {
			b.WriteString(gap + more)

			break
		}

		b.WriteString(entry)

		used += w
	}

	return b.String()
}

// renderCandidate highlights the characters of a candidate the fuzzy match
// hit, then appends its marker.
func renderCandidate(match fuzzy.Match, mark string, selected bool) string {
	base, hit := suggestionStyle, matchStyle
	if selected {
		base, hit = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	next := 0

	for i, r := range match.Str {
		style := base
		if next < len(match.MatchedIndexes) && match.MatchedIndexes[next] == i {
			style = hit
			next++
		}

		b.WriteString(style.Render(string(r)))
	}

	if mark != "" {
		b.WriteString(markStyle.Render(mark))
	}

	return b.String()
}
