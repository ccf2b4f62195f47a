package tangle

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"
)

// maxLineSize bounds the length of a single document line.
const maxLineSize = 16 << 20

// Parse reads a literate document from r and builds its chunk tree.
//
// The document is read once to register every root and alias, then again to
// store each chunk in document order. Any error aborts the build; no partial
// document is returned.
func Parse(ctx context.Context, r io.Reader, opts ...Option) (*Document, error) {
	d := newDocument(opts...)

	d.logger.TraceContext(ctx, "parse start")

	lines, err := readLines(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	d.source = lines
	d.info = make([]LineInfo, len(lines))

	for i := range d.info {
		d.info[i] = LineInfo{Owner: NoNode, Target: NoNode, Chunk: -1}
	}

	s := newSession(d)

	if err := s.prescan(ctx, lines); err != nil {
		return nil, err
	}

	if err := s.build(ctx, lines); err != nil {
		return nil, err
	}

	if err := s.finish(ctx); err != nil {
		return nil, err
	}

	d.logger.TraceContext(ctx, "parse complete",
		slog.Int("lines", len(lines)),
		slog.Int("nodes", len(d.nodes)),
		slog.Int("roots", len(d.roots)),
	)

	return d, nil
}

// ParseString parses a literate document held in a string.
func ParseString(ctx context.Context, src string, opts ...Option) (*Document, error) {
	return Parse(ctx, strings.NewReader(src), opts...)
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}

	return lines, scanner.Err()
}

// openers returns the 1-based numbers of the lines that open a chunk.
func openers(lines []string) []int {
	var (
		out     []int
		inChunk bool
	)

	for i, text := range lines {
		switch {
		case inChunk && IsChunkBoundary(text):
			inChunk = false

		case !inChunk && (IsChunkBoundary(text) || IsDeclarationOpen(text)):
			inChunk = true

			out = append(out, i+1)
		}
	}

	return out
}

// prescan registers every alias, then every root named by a chunk opener, so
// that paths resolve the same no matter where in the document a root or
// alias first appears.
func (s *session) prescan(ctx context.Context, lines []string) error {
	type rootRef struct {
		seg  Segment
		line int
	}

	var refs []rootRef

	for _, n := range openers(lines) {
		p, err := ParsePath(ExtractPath(lines[n-1]))
		if err != nil {
			return WrapError(err).At(n)
		}

		if p.RootQualified() {
			refs = append(refs, rootRef{seg: p.Segments[0], line: n})
		}
	}

	for _, ref := range refs {
		alias, name := ref.seg.Alias, ref.seg.Name
		if alias == "" {
			continue
		}

		if prev, ok := s.aliases[alias]; ok && prev != name {
			return ErrAliasRebound.With(
				slog.String("alias", alias),
				slog.String("root", prev),
				slog.String("rebound", name),
			).At(ref.line)
		}

		s.aliases[alias] = name
	}

	for _, ref := range refs {
		if _, ok := s.aliases[ref.seg.Name]; ok {
			continue
		}

		s.ensureRoot(ref.seg.Name)
	}

	s.logger.TraceContext(ctx, "prescan complete",
		slog.Int("roots", len(s.roots)),
		slog.Int("aliases", len(s.aliases)),
	)

	return nil
}

// build runs the reader state machine over the document, storing each chunk
// as soon as its closing boundary is read.
func (s *session) build(ctx context.Context, lines []string) error {
	var (
		inChunk bool
		cur     pending
		prose   []Line
	)

	for i, text := range lines {
		n := i + 1

		if !inChunk {
			switch {
			case IsChunkBoundary(text):
				cur = pending{tag: ExtractTag(text)}

			case IsDeclarationOpen(text):
				cur = pending{path: ExtractPath(text), tag: ExtractTag(text)}

			default:
				s.info[i].Kind = LineProse
				prose = append(prose, Line{Text: text, Src: n})

				continue
			}

			cur.opener = n
			cur.prose = trimTrailingBlank(prose)
			prose = nil
			inChunk = true
			s.info[i].Kind = LineOpen

			continue
		}

		if !IsChunkBoundary(text) {
			s.info[i].Kind = LineBody
			cur.body = append(cur.body, Line{Text: text, Src: n})

			continue
		}

		s.info[i].Kind = LineClose
		cur.closer = n
		inChunk = false

		if err := ctx.Err(); err != nil {
			return err
		}

		if err := s.put(ctx, cur); err != nil {
			return err
		}
	}

	if inChunk {
		return ErrUnterminatedChunk.With(slog.String("path", cur.path)).
			At(cur.opener)
	}

	return nil
}

func trimTrailingBlank(lines []Line) []Line {
	end := len(lines)
	for end > 0 && isBlank(lines[end-1].Text) {
		end--
	}

	return lines[:end]
}
