package tangle

import "iter"

// LineKind classifies a document line by the role it plays in the chunk
// grammar.
type LineKind int

const (
	LineProse LineKind = iota // prose
	LineOpen                  // open
	LineBody                  // body
	LineClose                 // close
)

func (k LineKind) String() string {
	switch k {
	case LineProse:
		return "prose"
	case LineOpen:
		return "open"
	case LineBody:
		return "body"
	case LineClose:
		return "close"
	default:
		return "unknown"
	}
}

// LineInfo describes one document line for renderers that produce
// cross-referenced listings.
type LineInfo struct {
	Kind LineKind
	// Owner is the node whose chunk contains the line, or NoNode for prose.
	Owner NodeID
	// Target is the node a reference line refers to, or NoNode.
	Target NodeID
	// Chunk is the index of the line's chunk among the chunks appended to
	// Owner, or -1 for prose.
	Chunk int
}

// Opens reports whether the line opens a chunk.
func (l LineInfo) Opens() bool { return l.Kind == LineOpen }

// Closes reports whether the line closes a chunk.
func (l LineInfo) Closes() bool { return l.Kind == LineClose }

// IsReference reports whether the line is a reference to another chunk.
func (l LineInfo) IsReference() bool { return l.Target.Valid() }

// LineInfo returns the description of 1-based document line n.
func (d *Document) LineInfo(n int) (LineInfo, bool) {
	if n < 1 || n > len(d.info) {
		return LineInfo{Owner: NoNode, Target: NoNode, Chunk: -1}, false
	}

	return d.info[n-1], true
}

// Lines returns an iterator over every 1-based document line number and its
// description.
func (d *Document) Lines() iter.Seq2[int, LineInfo] {
	return func(yield func(int, LineInfo) bool) {
		for i, info := range d.info {
			if !yield(i+1, info) {
				return
			}
		}
	}
}

// Source returns the text of 1-based document line n.
func (d *Document) Source(n int) string {
	if n < 1 || n > len(d.source) {
		return ""
	}

	return d.source[n-1]
}

// Chunks returns the document line of every chunk opener appended to id, in
// document order.
func (d *Document) Chunks(id NodeID) []int {
	n := d.at(id)
	out := make([]int, len(n.chunks))

	for i, c := range n.chunks {
		out[i] = c.opener
	}

	return out
}
