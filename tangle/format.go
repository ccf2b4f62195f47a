package tangle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Tree is a serializable snapshot of a document's chunk tree.
type Tree struct {
	Source  string            `json:"source,omitempty"  yaml:"source,omitempty"`
	Aliases map[string]string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Roots   []*TreeNode       `json:"roots"             yaml:"roots"`
}

// TreeNode is one node of a [Tree].
type TreeNode struct {
	Name     string      `json:"name"               yaml:"name"`
	Path     string      `json:"path"               yaml:"path"`
	Ghost    bool        `json:"ghost,omitempty"    yaml:"ghost,omitempty"`
	Declared bool        `json:"declared"           yaml:"declared"`
	Tag      string      `json:"tag,omitempty"      yaml:"tag,omitempty"`
	Via      string      `json:"via,omitempty"      yaml:"via,omitempty"`
	Lines    int         `json:"lines"              yaml:"lines"`
	Chunks   []int       `json:"chunks,omitempty"   yaml:"chunks,omitempty"`
	Children []*TreeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// Tree returns a snapshot of the chunk tree of d.
func (d *Document) Tree() *Tree {
	t := &Tree{Source: d.opts.name}

	if len(d.aliases) > 0 {
		t.Aliases = make(map[string]string, len(d.aliases))
		for alias, root := range d.Aliases() {
			t.Aliases[alias] = root
		}
	}

	for _, r := range d.roots {
		t.Roots = append(t.Roots, d.treeNode(r))
	}

	return t
}

func (d *Document) treeNode(id NodeID) *TreeNode {
	n := d.at(id)
	t := &TreeNode{
		Name:     n.name,
		Path:     d.path(id),
		Ghost:    n.ghost,
		Declared: n.declared,
		Tag:      n.tag,
		Lines:    len(n.lines),
		Chunks:   d.Chunks(id),
	}

	if n.via.Valid() {
		t.Via = d.path(n.via)
	}

	for _, c := range d.Children(id) {
		t.Children = append(t.Children, d.treeNode(c))
	}

	return t
}

// Format writes the chunk tree as indented text, one node per line.
func (d *Document) Format(_ context.Context, w io.Writer, indent int) error {
	if indent <= 0 {
		indent = 2
	}

	for _, r := range d.Tree().Roots {
		if err := formatTreeNode(w, r, indent, 0); err != nil {
			return err
		}
	}

	return nil
}

func formatTreeNode(w io.Writer, t *TreeNode, indent, depth int) error {
	name := t.Name
	if depth == 0 {
		name = "//" + name
	}

	var attrs []string

	if !t.Declared {
		attrs = append(attrs, "undeclared")
	}

	if t.Tag != "" {
		attrs = append(attrs, "#"+t.Tag)
	}

	if len(t.Chunks) > 0 {
		lines := make([]string, len(t.Chunks))
		for i, c := range t.Chunks {
			lines[i] = fmt.Sprint(c)
		}

		attrs = append(attrs, "@"+strings.Join(lines, ","))
	}

	line := strings.Repeat(" ", depth*indent) + name
	if len(attrs) > 0 {
		line += " [" + strings.Join(attrs, " ") + "]"
	}

	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}

	for _, c := range t.Children {
		if err := formatTreeNode(w, c, indent, depth+1); err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes the chunk tree as JSON to the writer.
func (d *Document) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(d.Tree(), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(d.Tree())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the chunk tree as YAML to the writer.
func (d *Document) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, d.Tree(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}
