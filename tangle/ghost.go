package tangle

import (
	"context"
	"log/slog"
	"strconv"
)

// open creates a ghost child of owner for the "." reference on document line
// src. Only one ghost may be waiting for its content at a time.
func (s *session) open(owner NodeID, src int) (NodeID, error) {
	if s.openGhost.Valid() {
		return NoNode, ErrGhostOpen.With(
			slog.String("open", s.path(s.openGhost)),
			slog.Int("opened", s.ghostLine),
		).At(src)
	}

	id := s.newGhost(owner)
	s.at(id).refLine = src
	s.openGhost = id
	s.ghostLine = src

	return id, nil
}

// promote moves the named children of ghost g to g's parent, keeping a
// back-reference to the innermost ghost each was exited from, and seals g
// against further named children. A child whose name the parent already owns
// is merged into the existing node.
func (s *session) promote(ctx context.Context, g NodeID) error {
	owner := s.at(g).parent
	if s.at(owner).sealed {
		owner = s.named(owner)
	}

	for _, name := range s.childNames(g) {
		id := s.at(g).children[name]

		if prev, ok := s.at(owner).children[name]; ok && prev != id {
			if err := s.merge(prev, id); err != nil {
				return err
			}

			s.logger.TraceContext(ctx, "reuse node",
				slog.String("ghost", s.path(g)),
				slog.String("path", s.path(prev)),
			)

			continue
		}

		s.at(owner).children[name] = id
		s.at(id).parent = owner

		if !s.at(id).via.Valid() {
			s.at(id).via = g
		}
	}

	clear(s.at(g).children)
	s.at(g).sealed = true

	s.logger.TraceContext(ctx, "exit ghost",
		slog.String("ghost", s.path(g)),
		slog.String("into", s.path(owner)),
	)

	return nil
}

// merge folds node src into dst. The text and children of src follow those
// of dst, and every line owned by or referring to src is rebound to dst.
func (s *session) merge(dst, src NodeID) error {
	d, n := s.at(dst), s.at(src)

	if d.declared && n.declared {
		line := 0
		if len(n.chunks) > 0 {
			line = n.chunks[0].opener
		}

		return ErrRedeclared.With(slog.String("path", s.path(dst))).At(line)
	}

	offset := len(d.chunks)

	for _, c := range n.chunks {
		c.start += len(d.lines)
		d.chunks = append(d.chunks, c)
	}

	d.lines = append(d.lines, n.lines...)
	d.declared = d.declared || n.declared

	if d.tag == "" {
		d.tag = n.tag
	}

	if d.refLine == 0 || (n.refLine > 0 && n.refLine < d.refLine) {
		d.refLine = n.refLine
	}

	for i := range s.info {
		info := &s.info[i]

		if info.Owner == src {
			info.Owner = dst
			info.Chunk += offset
		}

		if info.Target == src {
			info.Target = dst
		}
	}

	if s.openGhost.Valid() && s.at(s.openGhost).parent == src {
		s.at(s.openGhost).parent = dst
	}

	for _, g := range n.ghosts {
		s.at(g).parent = dst
		s.at(g).name = "." + strconv.Itoa(len(s.at(dst).ghosts))
		s.at(dst).ghosts = append(s.at(dst).ghosts, g)
	}

	for _, name := range s.childNames(src) {
		id := n.children[name]

		if prev, ok := s.at(dst).children[name]; ok {
			if err := s.merge(prev, id); err != nil {
				return err
			}

			continue
		}

		s.at(dst).children[name] = id
		s.at(id).parent = dst
	}

	n.lines, n.chunks, n.ghosts = nil, nil, nil
	clear(n.children)
	n.merged = true
	n.parent = dst

	return nil
}

// finish exits every ghost still entered and verifies that the document is
// complete.
func (s *session) finish(ctx context.Context) error {
	if s.openGhost.Valid() {
		s.logger.WarnContext(ctx, "ghost chunk never filled",
			slog.String("ghost", s.path(s.openGhost)),
			slog.Int("line", s.ghostLine),
		)
	}

	// Nested ghosts are created after their enclosing ghost, so walking the
	// arena backwards exits the innermost first.
	for i := len(s.nodes) - 1; i >= 0; i-- {
		id := NodeID(i)
		if s.at(id).ghost && !s.at(id).sealed {
			if err := s.promote(ctx, id); err != nil {
				if e := WrapError(err); e.Line() == 0 {
					return e.At(s.at(id).refLine)
				}

				return err
			}
		}
	}

	for i := range s.nodes {
		id := NodeID(i)
		n := s.at(id)

		if n.ghost || n.merged || s.isRoot(id) {
			continue
		}

		switch {
		case n.refLine > 0 && !n.declared:
			return ErrNeverDeclared.With(slog.String("path", s.path(id))).
				At(n.refLine)

		case n.declared && n.refLine == 0:
			s.logger.WarnContext(ctx, "chunk never referenced",
				slog.String("path", s.path(id)),
			)
		}
	}

	return nil
}
