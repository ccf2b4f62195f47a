package cmd

import (
	"context"
)

// Tree prints the chunk tree of a literate document.
type Tree struct {
	Source `embed:""`

	Format string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})." short:"f"`
	Indent int    `default:"2"                          help:"Indent width."           short:"i"`
}

// Run executes the tree command.
func (t *Tree) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	doc, err := t.parse(ctx)
	if err != nil {
		return err
	}

	w := stdout(ctx)

	switch t.Format {
	case "json":
		return doc.FormatJSON(ctx, w, t.Indent)
	case "yaml":
		return doc.FormatYAML(ctx, w, t.Indent)
	default:
		return doc.Format(ctx, w, t.Indent)
	}
}
