package tangle

import (
	"context"
	"log/slog"

	"github.com/ardnew/ct/log"
)

// session holds the navigation state of one tangle run. It is created by
// [Parse] and discarded once the document is built.
type session struct {
	*Document

	cursor    NodeID
	openGhost NodeID
	ghostLine int // document line of the reference that opened openGhost
	logger    log.Logger
}

func newSession(d *Document) *session {
	return &session{
		Document:  d,
		cursor:    NoNode,
		openGhost: NoNode,
		logger:    d.logger.With(slog.String("component", "session")),
	}
}

// pending is a chunk read from the document, waiting to be stored.
type pending struct {
	path   string
	tag    string
	opener int
	closer int
	body   []Line
	prose  []Line
}

// put declares or appends the chunk c.
func (s *session) put(ctx context.Context, c pending) error {
	p, err := ParsePath(c.path)
	if err != nil {
		return WrapError(err).At(c.opener)
	}

	var target NodeID

	if p.Empty() && s.openGhost.Valid() {
		target = s.openGhost
		s.at(target).declared = true
		s.openGhost = NoNode

		s.logger.TraceContext(ctx, "fill ghost",
			slog.String("ghost", s.path(target)),
			slog.Int("line", c.opener),
		)
	} else {
		if !s.cursor.Valid() && !s.rootQualified(p) {
			return ErrNoCursor.With(slog.String("path", p.Raw)).At(c.opener)
		}

		target, err = s.resolve(ctx, p, c.opener)
		if err != nil {
			return err
		}

		n := s.at(target)

		switch {
		case p.Decl && n.declared:
			return ErrRedeclared.With(slog.String("path", s.path(target))).
				At(c.opener)

		case !p.Decl && !n.declared:
			return ErrUndeclared.With(slog.String("path", s.path(target))).
				At(c.opener)
		}

		n.declared = true
	}

	if c.tag != "" && s.at(target).tag == "" {
		s.at(target).tag = c.tag
	}

	s.cursor = target

	s.logger.TraceContext(ctx, "put chunk",
		slog.String("path", s.path(target)),
		slog.Int("line", c.opener),
		slog.Int("lines", len(c.body)),
	)

	return s.appendChunk(target, c)
}

// appendChunk stores the body of c in target and creates placeholder
// children for every reference it contains.
func (s *session) appendChunk(target NodeID, c pending) error {
	n := s.at(target)
	index := len(n.chunks)
	n.chunks = append(n.chunks, chunk{
		start:  len(n.lines),
		opener: c.opener,
		prose:  c.prose,
	})

	s.mark(c.opener, target, index)
	s.mark(c.closer, target, index)

	for _, l := range c.body {
		s.at(target).lines = append(s.at(target).lines, l)
		s.mark(l.Src, target, index)

		if !IsReference(l.Text) {
			continue
		}

		child, err := s.reference(target, ExtractPath(l.Text), l.Src)
		if err != nil {
			return err
		}

		s.info[l.Src-1].Target = child
	}

	return nil
}

// reference registers the reference token tok found on document line src
// of owner, returning the node it refers to.
func (s *session) reference(owner NodeID, tok string, src int) (NodeID, error) {
	if tok == GhostRef {
		return s.open(owner, src)
	}

	p, err := ParsePath(tok)
	if err != nil {
		return NoNode, WrapError(err).At(src)
	}

	if p.Decl || len(p.Segments) != 1 || p.Segments[0].Kind != SegChild {
		return NoNode, ErrInvalidReference.With(slog.String("token", tok)).
			At(src)
	}

	name := p.Segments[0].Name

	id, ok := s.at(owner).children[name]
	if !ok {
		id, err = s.newChild(owner, name)
		if err != nil {
			return NoNode, WrapError(err).At(src)
		}
	}

	if s.at(id).refLine == 0 {
		s.at(id).refLine = src
	}

	return id, nil
}

func (s *session) mark(line int, owner NodeID, index int) {
	if line <= 0 || line > len(s.info) {
		return
	}

	s.info[line-1].Owner = owner
	s.info[line-1].Chunk = index
}
