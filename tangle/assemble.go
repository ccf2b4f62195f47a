package tangle

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/ct/log"
)

// defaultSourceName names the document in generated headers when
// [WithSourceName] is not given.
const defaultSourceName = "input"

// File is one assembled output file.
type File struct {
	Name  string
	Lines []string
	// Src holds the 1-based document line of each entry in Lines, or 0 for
	// generated lines that have no source.
	Src  []int
	Lang *Language
}

func (f *File) emit(text string, src int) {
	f.Lines = append(f.Lines, text)
	f.Src = append(f.Src, src)
}

// Bytes returns the content of f with every line terminated by '\n'.
func (f *File) Bytes() []byte {
	var buf bytes.Buffer

	for _, l := range f.Lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

// WriteTo writes the content of f to w.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Bytes())

	return int64(n), err
}

// Result holds every file assembled from a document and their line maps.
type Result struct {
	Files []*File
	Map   LineMap
}

// File returns the assembled file named name.
func (r *Result) File(name string) (*File, bool) {
	for _, f := range r.Files {
		if f.Name == name {
			return f, true
		}
	}

	return nil, false
}

// Lookup returns the document line that produced line of the generated file.
func (r *Result) Lookup(file string, line int) (int, error) {
	return r.Map.Lookup(file, line)
}

// Tangle assembles every declared root of d, in order of first appearance.
// It returns no files at all if any root fails to assemble.
func (d *Document) Tangle(ctx context.Context) (*Result, error) {
	res := &Result{Map: LineMap{}}

	for _, root := range d.roots {
		if !d.at(root).declared {
			continue
		}

		f, err := d.Assemble(ctx, root)
		if err != nil {
			return nil, err
		}

		res.Files = append(res.Files, f)
		res.Map[f.Name] = f.Src
	}

	return res, nil
}

// Assemble expands root into a single output file.
func (d *Document) Assemble(ctx context.Context, root NodeID) (*File, error) {
	a := &assembler{
		Document: d,
		ctx:      ctx,
		file:     &File{Name: d.at(root).name},
		active:   map[NodeID]bool{},
		logger:   d.logger.With(slog.String("component", "assembler")),
	}

	if d.opts.header || d.opts.docComments {
		langs := d.opts.languages
		if langs == nil {
			var err error
			if langs, err = DefaultLanguages(ctx); err != nil {
				return nil, err
			}
		}

		a.lang = langs.Detect(a.file.Name, d.at(root).tag)
		a.file.Lang = a.lang
	}

	if err := a.expand(root, "", 0); err != nil {
		return nil, err
	}

	if d.opts.header {
		if err := a.header(); err != nil {
			return nil, err
		}
	}

	a.logger.TraceContext(ctx, "assembled",
		slog.String("file", a.file.Name),
		slog.Int("lines", len(a.file.Lines)),
	)

	return a.file, nil
}

type assembler struct {
	*Document

	ctx    context.Context
	lang   *Language
	file   *File
	active map[NodeID]bool
	logger log.Logger
}

// expand emits the lines of node id, indented by the inherited
// indentation inherit.
func (a *assembler) expand(id NodeID, inherit string, depth int) error {
	if err := a.ctx.Err(); err != nil {
		return err
	}

	if depth > a.opts.maxDepth {
		return ErrMaxDepthExceeded.With(
			slog.String("path", a.path(id)),
			slog.Int("max", a.opts.maxDepth),
		)
	}

	if a.active[id] {
		return ErrReferenceCycle.With(slog.String("path", a.path(id)))
	}

	a.active[id] = true
	defer delete(a.active, id)

	n := a.at(id)

	add := inherit
	if len(n.lines) > 0 {
		if own := leadingSpace(n.lines[0].Text); own != "" {
			add = strings.Replace(inherit, own, "", 1)
		}
	}

	var (
		ghost int
		chunk = -1
		prose []Line
	)

	for i, line := range n.lines {
		for chunk+1 < len(n.chunks) && n.chunks[chunk+1].start <= i {
			chunk++
			prose = n.chunks[chunk].prose
		}

		if !IsReference(line.Text) {
			a.emit(line, add, prose)

			continue
		}

		child, err := a.target(id, ExtractPath(line.Text), &ghost)
		if err != nil {
			return WrapError(err).At(line.Src)
		}

		if err := a.expand(child, leadingSpace(line.Text)+add, depth+1); err != nil {
			return err
		}
	}

	return nil
}

// target returns the node a reference token in node id refers to. Ghost
// references bind to the ghost children of id in creation order.
func (a *assembler) target(id NodeID, tok string, ghost *int) (NodeID, error) {
	n := a.at(id)

	if tok == GhostRef {
		if *ghost >= len(n.ghosts) {
			return NoNode, ErrDanglingReference.With(
				slog.String("path", a.path(id)),
				slog.String("token", tok),
			)
		}

		g := n.ghosts[*ghost]
		*ghost++

		return g, nil
	}

	owner := id
	if n.ghost {
		owner = a.named(id)
	}

	child, ok := a.at(owner).children[tok]
	if !ok {
		return NoNode, ErrDanglingReference.With(
			slog.String("path", a.path(owner)),
			slog.String("token", tok),
		)
	}

	return child, nil
}

// emit writes one plain line, preceded or followed by a doc comment when the
// line declares a function described by prose.
func (a *assembler) emit(line Line, add string, prose []Line) {
	var comment []Line

	if a.opts.docComments && a.lang != nil {
		if name, ok := a.lang.FuncName(line.Text); ok {
			comment = a.lang.Comment(describe(prose, name), leadingSpace(line.Text))
		}
	}

	if a.lang == nil || a.lang.Placement != PlaceAfter {
		for _, c := range comment {
			a.file.emit(add+c.Text, c.Src)
		}

		comment = nil
	}

	a.file.emit(add+line.Text, line.Src)

	for _, c := range comment {
		a.file.emit(add+c.Text, c.Src)
	}
}

// describe returns the prose beginning at the first line that starts with
// name.
func describe(prose []Line, name string) []Line {
	for i, p := range prose {
		if strings.HasPrefix(p.Text, name) {
			return prose[i:]
		}
	}

	return nil
}

// header inserts the generated-file comment as the first line of the file,
// or the second if the first is an interpreter directive.
func (a *assembler) header() error {
	source := a.opts.name
	if source == "" {
		source = defaultSourceName
	}

	text, ok, err := a.lang.HeaderLine(source, a.file.Name)
	if err != nil || !ok {
		return err
	}

	at := 0
	if len(a.file.Lines) > 0 && strings.HasPrefix(a.file.Lines[0], "#!") {
		at = 1
	}

	a.file.Lines = slices.Insert(a.file.Lines, at, text)
	a.file.Src = slices.Insert(a.file.Src, at, 0)

	return nil
}
