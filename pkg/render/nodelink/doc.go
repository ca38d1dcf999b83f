// Package nodelink renders lineage graphs as traditional node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// entities appear as boxes connected by arrows. It's an alternative export
// to the canvas SVG for cases where a compact overview is preferred, or
// where downstream tooling wants DOT source instead of pixels.
//
// Graphviz performs its own placement here. The interactive canvas never
// uses this path; its layout comes from the layout engine so that dragging
// and selection stay consistent.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Columns: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Columns: When true, each column renders as a table row with its own
//     port, and edges attach to columns rather than entities.
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// The generated DOT uses left-to-right layout (rankdir=LR), matching the
// canvas's dependency flow direction.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
