package tangle

import (
	"iter"
	"slices"

	"github.com/ardnew/ct/log"
)

// DefaultMaxDepth is the default maximum chunk nesting depth followed during
// assembly. Users may modify this before parsing to change the default.
var DefaultMaxDepth = 1000

// Document is the chunk tree built from one literate source document.
//
// A Document is immutable once [Parse] returns; assembling it any number of
// times yields identical output.
type Document struct {
	store

	source    []string
	info      []LineInfo // indexed by document line - 1
	roots     []NodeID   // in order of first appearance
	rootIndex map[string]NodeID
	aliases   map[string]string

	logger log.Logger
	opts   options
}

type options struct {
	name        string
	maxDepth    int
	header      bool
	docComments bool
	languages   *Languages
}

// Option configures document parsing and assembly.
type Option func(*Document)

// WithMaxDepth sets the maximum chunk nesting depth followed during assembly.
func WithMaxDepth(depth int) Option {
	return func(d *Document) {
		d.opts.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(d *Document) {
		d.logger = logger
	}
}

// WithSourceName sets the document name used in generated file headers.
func WithSourceName(name string) Option {
	return func(d *Document) {
		d.opts.name = name
	}
}

// WithHeader enables a "generated, do not edit" comment at the top of every
// output file whose language is known.
func WithHeader(enable bool) Option {
	return func(d *Document) {
		d.opts.header = enable
	}
}

// WithDocComments enables comments built from the prose preceding a chunk,
// inserted at the first function declaration in the chunk.
func WithDocComments(enable bool) Option {
	return func(d *Document) {
		d.opts.docComments = enable
	}
}

// WithLanguages sets the language table used to detect comment syntax.
// If not provided, [DefaultLanguages] is used.
func WithLanguages(langs *Languages) Option {
	return func(d *Document) {
		d.opts.languages = langs
	}
}

func newDocument(opts ...Option) *Document {
	d := &Document{
		rootIndex: map[string]NodeID{},
		aliases:   map[string]string{},
	}

	d.opts.maxDepth = DefaultMaxDepth

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Roots returns the root nodes in order of first appearance.
func (d *Document) Roots() []NodeID { return slices.Clone(d.roots) }

// Root returns the root named name, following aliases.
func (d *Document) Root(name string) (NodeID, bool) {
	if target, ok := d.aliases[name]; ok {
		name = target
	}

	id, ok := d.rootIndex[name]

	return id, ok
}

// Aliases returns an iterator over alias and root name pairs.
func (d *Document) Aliases() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, alias := range sortedKeys(d.aliases) {
			if !yield(alias, d.aliases[alias]) {
				return
			}
		}
	}
}

// Len returns the number of nodes in the document.
func (d *Document) Len() int { return len(d.nodes) }

// Name returns the name of node id. Ghost names begin with '.'.
func (d *Document) Name(id NodeID) string { return d.at(id).name }

// Path returns the full hierarchical path of node id.
func (d *Document) Path(id NodeID) string { return d.path(id) }

// Parent returns the parent of id. A root is its own parent.
func (d *Document) Parent(id NodeID) NodeID { return d.at(id).parent }

// IsRoot reports whether id is a root.
func (d *Document) IsRoot(id NodeID) bool { return d.isRoot(id) }

// IsGhost reports whether id is a ghost.
func (d *Document) IsGhost(id NodeID) bool { return d.at(id).ghost }

// Declared reports whether id has been declared.
func (d *Document) Declared(id NodeID) bool { return d.at(id).declared }

// Tag returns the opaque tag given on the chunk that declared id.
func (d *Document) Tag(id NodeID) string { return d.at(id).tag }

// Via returns the innermost ghost that id was promoted out of, or [NoNode].
func (d *Document) Via(id NodeID) NodeID { return d.at(id).via }

// Text returns the stored lines of id.
func (d *Document) Text(id NodeID) []Line { return slices.Clone(d.at(id).lines) }

// Children returns the named children of id, sorted by name, followed by its
// ghost children in creation order.
func (d *Document) Children(id NodeID) []NodeID {
	n := d.at(id)
	out := make([]NodeID, 0, len(n.children)+len(n.ghosts))

	for _, name := range d.childNames(id) {
		out = append(out, n.children[name])
	}

	return append(out, n.ghosts...)
}

// Child returns the named child name of id.
func (d *Document) Child(id NodeID, name string) (NodeID, bool) {
	c, ok := d.at(id).children[name]

	return c, ok
}

// Walk returns an iterator over every node reachable from the roots in
// depth-first order.
func (d *Document) Walk() iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		var visit func(NodeID) bool

		visit = func(id NodeID) bool {
			if !yield(id) {
				return false
			}

			for _, c := range d.Children(id) {
				if !visit(c) {
					return false
				}
			}

			return true
		}

		for _, r := range d.roots {
			if !visit(r) {
				return
			}
		}
	}
}
