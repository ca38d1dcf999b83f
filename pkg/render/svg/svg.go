// Package svg renders a computed layout as a standalone SVG document.
//
// Unlike the nodelink export, nothing here does its own placement: box
// positions, edge anchors, and selection emphasis are taken verbatim from
// the layout engine, so the SVG is a faithful picture of what the
// interactive canvas shows.
package svg

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/lineascope/lineascope/pkg/lineage"
	"github.com/lineascope/lineascope/pkg/lineage/layout"
)

const canvasCSS = `
    .node { stroke-width: 1; }
    .node-header { font-weight: bold; }
    .column-row.related { font-weight: bold; }
    .edge { fill: none; stroke-width: 1.5; }
    .edge.related { stroke-width: 3; }
    .edge.unrelated { stroke-opacity: 0.25; }`

// Theme holds the color palette for the canvas.
type Theme struct {
	Background   string
	NodeFill     string
	NodeStroke   string
	HeaderFill   string
	Text         string
	MutedText    string
	Edge         string
	RelatedEdge  string
	SelectedText string
}

// DefaultTheme is a light palette matching the interactive canvas.
var DefaultTheme = Theme{
	Background:   "#fafafa",
	NodeFill:     "#ffffff",
	NodeStroke:   "#94a3b8",
	HeaderFill:   "#eef2f7",
	Text:         "#1e293b",
	MutedText:    "#64748b",
	Edge:         "#94a3b8",
	RelatedEdge:  "#2563eb",
	SelectedText: "#2563eb",
}

// DarkTheme is a dark palette for embedding in dark UIs.
var DarkTheme = Theme{
	Background:   "#0f172a",
	NodeFill:     "#1e293b",
	NodeStroke:   "#475569",
	HeaderFill:   "#334155",
	Text:         "#e2e8f0",
	MutedText:    "#94a3b8",
	Edge:         "#64748b",
	RelatedEdge:  "#60a5fa",
	SelectedText: "#60a5fa",
}

// Option configures the renderer.
type Option func(*renderer)

type renderer struct {
	selection *layout.Selection
	theme     Theme
}

// WithSelection applies an active selection so related edges and columns
// render emphasized and the rest dimmed.
func WithSelection(s *layout.Selection) Option {
	return func(r *renderer) { r.selection = s }
}

// WithTheme overrides the default palette.
func WithTheme(t Theme) Option {
	return func(r *renderer) { r.theme = t }
}

// Render draws the layout as a complete SVG document.
func Render(l *layout.Layout, opts ...Option) []byte {
	r := renderer{theme: DefaultTheme}
	for _, opt := range opts {
		opt(&r)
	}
	if r.selection == nil {
		r.selection = &layout.Selection{}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)

	r.renderDefs(&buf)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill=%q/>`+"\n", r.theme.Background)

	// Edges go under the boxes so long curves never cover text.
	for _, e := range l.Graph().ResolvedEdges() {
		r.renderEdge(&buf, l, e)
	}
	for _, n := range l.Nodes() {
		r.renderNode(&buf, n)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) renderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", canvasCSS)
	fmt.Fprintf(buf, `  <defs>
    <marker id="arrow" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse">
      <path d="M 0 0 L 10 5 L 0 10 z" fill=%q/>
    </marker>
    <marker id="arrow-related" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse">
      <path d="M 0 0 L 10 5 L 0 10 z" fill=%q/>
    </marker>
  </defs>
`, r.theme.Edge, r.theme.RelatedEdge)
}

func (r *renderer) renderNode(buf *bytes.Buffer, n *layout.Node) {
	fmt.Fprintf(buf, `  <g class="node" id="node-%s">`+"\n", escape(n.ID))
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill=%q stroke=%q/>`+"\n",
		n.Left(), n.Top(), layout.NodeWidth, n.BoxHeight(), r.theme.NodeFill, r.theme.NodeStroke)
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill=%q/>`+"\n",
		n.Left(), n.Top(), layout.NodeWidth, layout.HeaderHeight, r.theme.HeaderFill)
	fmt.Fprintf(buf, `    <text class="node-header" x="%.1f" y="%.1f" font-size="13" fill=%q>%s</text>`+"\n",
		n.Left()+10, n.Top()+layout.HeaderHeight/2+4, r.theme.Text, escape(n.DisplayName()))
	if n.Kind != "" {
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="10" text-anchor="end" fill=%q>%s</text>`+"\n",
			n.Right()-10, n.Top()+layout.HeaderHeight/2+4, r.theme.MutedText, escape(string(n.Kind)))
	}
	for i, col := range n.Columns {
		r.renderColumn(buf, n, i, col)
	}
	buf.WriteString("  </g>\n")
}

func (r *renderer) renderColumn(buf *bytes.Buffer, n *layout.Node, idx int, col lineage.Column) {
	y := n.Top() + layout.HeaderHeight + float64(idx)*layout.ColumnRowHeight + layout.ColumnRowHeight/2 + 4
	color := r.theme.Text
	class := "column-row"
	switch r.selection.ClassifyColumn(n.ID, col.Name) {
	case layout.EmphasisRelated:
		color = r.theme.SelectedText
		class += " related"
	case layout.EmphasisUnrelated:
		color = r.theme.MutedText
	}
	fmt.Fprintf(buf, `    <text class=%q x="%.1f" y="%.1f" font-size="12" fill=%q>%s</text>`+"\n",
		class, n.Left()+14, y, color, escape(col.Name))
	if col.Type != "" {
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="10" text-anchor="end" fill=%q>%s</text>`+"\n",
			n.Right()-14, y, r.theme.MutedText, escape(col.Type))
	}
}

func (r *renderer) renderEdge(buf *bytes.Buffer, l *layout.Layout, e lineage.Edge) {
	eg, ok := l.EdgeGeometry(e)
	if !ok {
		return
	}

	class := "edge"
	stroke := r.theme.Edge
	marker := "arrow"
	switch r.selection.ClassifyEdge(e) {
	case layout.EmphasisRelated:
		class = "edge related"
		stroke = r.theme.RelatedEdge
		marker = "arrow-related"
	case layout.EmphasisUnrelated:
		class = "edge unrelated"
	}
	fmt.Fprintf(buf, `  <path class=%q d=%q stroke=%q marker-end="url(#%s)"/>`+"\n",
		class, eg.Path(), stroke, marker)
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string {
	return escaper.Replace(s)
}
