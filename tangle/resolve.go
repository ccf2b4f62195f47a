package tangle

import (
	"context"
	"log/slog"
)

// rootQualified reports whether p can be resolved without a cursor, either
// because it begins with a root switch or because its first segment is a
// registered alias.
func (d *Document) rootQualified(p Path) bool {
	if p.RootQualified() {
		return true
	}

	if len(p.Segments) > 0 && p.Segments[0].Kind == SegChild {
		_, ok := d.aliases[p.Segments[0].Name]

		return ok
	}

	return false
}

// canonical rewrites a leading alias segment into a root switch and maps an
// aliased root switch onto its root.
func (d *Document) canonical(segs []Segment) []Segment {
	if len(segs) == 0 {
		return segs
	}

	first := segs[0]

	switch first.Kind {
	case SegRootSwitch:
		if target, ok := d.aliases[first.Name]; ok {
			first.Name = target
		}

	case SegChild:
		target, ok := d.aliases[first.Name]
		if !ok {
			return segs
		}

		first = Segment{Kind: SegRootSwitch, Name: target}

	default:
		return segs
	}

	out := make([]Segment, len(segs))
	copy(out, segs)
	out[0] = first

	return out
}

// ensureRoot returns the root named name, creating it if absent.
func (d *Document) ensureRoot(name string) NodeID {
	if id, ok := d.rootIndex[name]; ok {
		return id
	}

	id := d.newRoot(name)
	d.rootIndex[name] = id
	d.roots = append(d.roots, id)

	return id
}

// resolve walks p from the cursor, creating absent named nodes and exiting
// ghosts on the way up. It returns the node the walk ends at.
func (s *session) resolve(ctx context.Context, p Path, line int) (NodeID, error) {
	cur := s.cursor

	for _, seg := range s.canonical(p.Segments) {
		var err error

		switch seg.Kind {
		case SegRootSwitch:
			if cur.Valid() {
				if cur, err = s.exitToRoot(ctx, cur); err != nil {
					return NoNode, WrapError(err).At(line)
				}
			}

			cur = s.ensureRoot(seg.Name)

		case SegRoot:
			if cur, err = s.exitToRoot(ctx, cur); err != nil {
				return NoNode, WrapError(err).At(line)
			}

		case SegSelf:

		case SegUp:
			if cur, err = s.up(ctx, cur); err != nil {
				return NoNode, WrapError(err).At(line)
			}

		case SegChild:
			next, ok := s.at(cur).children[seg.Name]
			if !ok {
				if next, err = s.newChild(cur, seg.Name); err != nil {
					return NoNode, WrapError(err).At(line)
				}

				s.logger.TraceContext(ctx, "create node",
					slog.String("path", s.path(next)),
				)
			}

			cur = next

		case SegSearch:
			if cur, err = s.find(cur, seg.Name); err != nil {
				return NoNode, WrapError(err).At(line)
			}
		}
	}

	return cur, nil
}

// find returns the single node named name in the subtree under id.
func (d *Document) find(id NodeID, name string) (NodeID, error) {
	found := d.search(id, name)

	switch len(found) {
	case 0:
		return NoNode, ErrNoSearchMatch.With(
			slog.String("name", name),
			slog.String("under", d.path(id)),
		)

	case 1:
		return found[0], nil

	default:
		paths := make([]string, len(found))
		for i, f := range found {
			paths[i] = d.path(f)
		}

		return NoNode, ErrAmbiguousSearch.With(
			slog.String("name", name),
			slog.String("under", d.path(id)),
			slog.Any("matches", paths),
		)
	}
}

// up moves from id to its parent, promoting the named children of a ghost
// first. A root stays where it is.
func (s *session) up(ctx context.Context, id NodeID) (NodeID, error) {
	if s.isRoot(id) {
		return id, nil
	}

	if s.at(id).ghost && !s.at(id).sealed {
		if err := s.promote(ctx, id); err != nil {
			return NoNode, err
		}
	}

	return s.at(id).parent, nil
}

// exitToRoot climbs from id to its root one step at a time so every ghost
// passed on the way is exited.
func (s *session) exitToRoot(ctx context.Context, id NodeID) (NodeID, error) {
	var err error

	for !s.isRoot(id) {
		if id, err = s.up(ctx, id); err != nil {
			return NoNode, err
		}
	}

	return id, nil
}
