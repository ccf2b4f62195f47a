package tangle

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// NodeID is a stable handle to a chunk node within a [Document].
type NodeID int

// NoNode is the zero handle returned when no node applies.
const NoNode NodeID = -1

// Valid reports whether id refers to a node.
func (id NodeID) Valid() bool { return id >= 0 }

// Line is one stored line of chunk text with the document line it came from.
type Line struct {
	Text string
	Src  int
}

// chunk records one contiguous append to a node.
type chunk struct {
	start  int    // index of the chunk's first line in node.lines
	opener int    // document line of the chunk opener
	prose  []Line // prose preceding the chunk, trailing blanks dropped
}

type node struct {
	name     string
	parent   NodeID // roots point at themselves
	via      NodeID // ghost a promoted child was exited from
	ghost    bool
	sealed   bool // ghost whose named children were promoted
	merged   bool // absorbed into a same-named node on ghost exit
	declared bool
	refLine  int // first document line referencing the node, 0 if none
	tag      string
	lines    []Line
	children map[string]NodeID
	ghosts   []NodeID
	chunks   []chunk
}

// store is the node arena shared by a document and its session.
type store struct {
	nodes []node
}

func (s *store) at(id NodeID) *node { return &s.nodes[id] }

func (s *store) add(n node) NodeID {
	if n.children == nil {
		n.children = map[string]NodeID{}
	}

	s.nodes = append(s.nodes, n)

	return NodeID(len(s.nodes) - 1)
}

func (s *store) newRoot(name string) NodeID {
	id := s.add(node{name: name, via: NoNode})
	s.at(id).parent = id

	return id
}

func (s *store) isRoot(id NodeID) bool { return s.at(id).parent == id }

func (s *store) rootOf(id NodeID) NodeID {
	for !s.isRoot(id) {
		id = s.at(id).parent
	}

	return id
}

// named returns the nearest ancestor of id, or id itself, that is not a
// ghost. Names referenced from a ghost resolve against this node.
func (s *store) named(id NodeID) NodeID {
	for s.at(id).ghost && !s.isRoot(id) {
		id = s.at(id).parent
	}

	return id
}

// newGhost appends a ghost child to parent.
func (s *store) newGhost(parent NodeID) NodeID {
	name := "." + strconv.Itoa(len(s.at(parent).ghosts))
	id := s.add(node{name: name, parent: parent, via: NoNode, ghost: true})
	p := s.at(parent)
	p.ghosts = append(p.ghosts, id)

	return id
}

// newChild creates the named child name under parent. If parent is a ghost
// and an enclosing ghost or the named ancestor already owns a child with
// that name, the existing node is moved under parent instead of creating a
// duplicate.
func (s *store) newChild(parent NodeID, name string) (NodeID, error) {
	if s.at(parent).sealed {
		return NoNode, ErrGhostSealed
	}

	if s.at(parent).ghost {
		owner := s.named(parent)

		for a := s.at(parent).parent; ; a = s.at(a).parent {
			if id, ok := s.at(a).children[name]; ok {
				delete(s.at(a).children, name)
				s.at(id).parent = parent
				s.at(parent).children[name] = id

				return id, nil
			}

			if a == owner {
				break
			}
		}
	}

	id := s.add(node{name: name, parent: parent, via: NoNode})
	s.at(parent).children[name] = id

	return id, nil
}

// childNames returns the names of id's named children in sorted order.
func (s *store) childNames(id NodeID) []string {
	return slices.Sorted(maps.Keys(s.at(id).children))
}

// search collects every node named name in the subtree under id, including
// id itself and ghost subtrees, in breadth-first order.
func (s *store) search(id NodeID, name string) []NodeID {
	var (
		found []NodeID
		queue = []NodeID{id}
	)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		n := s.at(cur)
		if n.name == name {
			found = append(found, cur)
		}

		for _, c := range s.childNames(cur) {
			queue = append(queue, n.children[c])
		}

		queue = append(queue, n.ghosts...)
	}

	return found
}

// path returns the hierarchical path of id, such as "//out.go/main/.0/x".
func (s *store) path(id NodeID) string {
	var elem []string

	for !s.isRoot(id) {
		elem = append(elem, s.at(id).name)
		id = s.at(id).parent
	}

	elem = append(elem, "/"+s.at(id).name)
	slices.Reverse(elem)

	return "/" + strings.Join(elem, "/")
}
