package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/lineascope/lineascope/pkg/lineage"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Columns includes a row per column in each node label, with edges
	// attached to their column ports. When false, nodes collapse to plain
	// boxes and edges connect entities.
	Columns bool
}

// ToDOT converts a lineage graph to Graphviz DOT format for node-link
// visualization. The resulting DOT string can be rendered using [RenderSVG].
//
// Edges whose endpoints do not resolve to known nodes are skipped, matching
// the canvas renderer's policy. With Options.Columns, each column becomes a
// table row with a port, so edges visually attach to their columns.
func ToDOT(g *lineage.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph lineage {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if opts.Columns {
		buf.WriteString("  node [shape=plain, fontsize=12];\n")
	} else {
		buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	}
	buf.WriteString("  ranksep=1.0;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		if opts.Columns {
			fmt.Fprintf(&buf, "  %q [label=<%s>];\n", n.ID, htmlLabel(n))
		} else {
			fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID, n.DisplayName())
		}
	}

	buf.WriteString("\n")
	for _, e := range g.ResolvedEdges() {
		if opts.Columns {
			fmt.Fprintf(&buf, "  %q:%s -> %q:%s;\n",
				e.SourceNodeID, portName(e.SourceColumn), e.TargetNodeID, portName(e.TargetColumn))
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.SourceNodeID, e.TargetNodeID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// htmlLabel builds an HTML-like table label: a header row with the entity
// name and kind, then one row per column carrying a port.
func htmlLabel(n *lineage.Node) string {
	var b strings.Builder
	b.WriteString(`<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0" CELLPADDING="4">`)
	header := htmlEscape(n.DisplayName())
	if n.Kind != "" {
		header += fmt.Sprintf(` <FONT POINT-SIZE="9">%s</FONT>`, htmlEscape(string(n.Kind)))
	}
	fmt.Fprintf(&b, `<TR><TD BGCOLOR="lightgrey"><B>%s</B></TD></TR>`, header)
	for _, col := range n.Columns {
		fmt.Fprintf(&b, `<TR><TD PORT=%q ALIGN="LEFT">%s</TD></TR>`, portName(col.Name), htmlEscape(col.Name))
	}
	b.WriteString("</TABLE>")
	return b.String()
}

var portUnsafe = regexp.MustCompile(`[^A-Za-z0-9_]`)

// portName maps a column name onto a DOT-safe port identifier.
// Distinct columns that sanitize to the same port are rare enough that the
// ambiguity is acceptable for an export format.
func portName(column string) string {
	p := portUnsafe.ReplaceAllString(column, "_")
	if p == "" {
		return "_"
	}
	return "c_" + p
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func htmlEscape(s string) string {
	return htmlEscaper.Replace(s)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
