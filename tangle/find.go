package tangle

import (
	"log/slog"

	"github.com/sahilm/fuzzy"
)

// ErrNotFound is returned by [Document.Find] when a path names no node.
var ErrNotFound = ErrStructural.kindOf("no such chunk")

// maxSuggestions bounds the names offered by a failed lookup.
const maxSuggestions = 3

// Find resolves path against a built document, starting from node from.
// Unlike the resolver used while parsing, Find never creates nodes or exits
// ghosts; a relative path requires a valid from.
func (d *Document) Find(from NodeID, path string) (NodeID, error) {
	p, err := ParsePath(path)
	if err != nil {
		return NoNode, err
	}

	if !from.Valid() && !d.rootQualified(p) {
		return NoNode, ErrNoCursor.With(slog.String("path", p.Raw))
	}

	cur := from

	for _, seg := range d.canonical(p.Segments) {
		switch seg.Kind {
		case SegRootSwitch:
			id, ok := d.rootIndex[seg.Name]
			if !ok {
				return NoNode, d.notFound(seg.Name, sortedKeys(d.rootIndex))
			}

			cur = id

		case SegRoot:
			cur = d.rootOf(cur)

		case SegSelf:

		case SegUp:
			cur = d.at(cur).parent

		case SegChild:
			id, ok := d.at(cur).children[seg.Name]
			if !ok {
				return NoNode, d.notFound(seg.Name, d.childNames(cur)).
					With(slog.String("under", d.path(cur)))
			}

			cur = id

		case SegSearch:
			if cur, err = d.find(cur, seg.Name); err != nil {
				return NoNode, err
			}
		}
	}

	return cur, nil
}

// notFound builds an ErrNotFound for name, suggesting the closest of the
// candidate names.
func (d *Document) notFound(name string, candidates []string) *Error {
	err := ErrNotFound.With(slog.String("name", name))

	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		return err
	}

	suggest := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(suggest) == maxSuggestions {
			break
		}

		suggest = append(suggest, m.Str)
	}

	return err.With(slog.Any("suggest", suggest))
}

// Paths returns the path of every node reachable from the roots, in
// depth-first order.
func (d *Document) Paths() []string {
	var out []string

	for id := range d.Walk() {
		out = append(out, d.path(id))
	}

	return out
}
