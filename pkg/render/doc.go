// Package render provides visualization rendering for lineage layouts.
//
// # Overview
//
// This package groups the renderers that turn a computed layout into
// visual outputs:
//
//   - Canvas SVG (in [svg] subpackage): the primary visualization with
//     entity boxes, column rows, and routed column-to-column arrows
//   - Node-link diagrams (in [nodelink] subpackage): a Graphviz-based
//     alternative export at entity granularity
//
// # Canvas SVG
//
// The [svg] subpackage draws the layout exactly as computed: box positions,
// per-column edge anchors, and selection emphasis all come straight from
// the layout engine.
//
//	l := layout.Compute(g, layout.Options{})
//	out := svg.Render(l)
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage emits Graphviz DOT and renders it in-process.
// Graphviz does its own placement there, so it is an export format rather
// than a view of the interactive layout.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	out, err := nodelink.RenderSVG(dot)
//
// [svg]: github.com/lineascope/lineascope/pkg/render/svg
// [nodelink]: github.com/lineascope/lineascope/pkg/render/nodelink
package render
