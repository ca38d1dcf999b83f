package layout

import (
	"github.com/lineascope/lineascope/pkg/lineage"
)

// Geometry constants, in pixels. Box width is fixed; box height grows with
// the column count.
const (
	// NodeWidth is the fixed width of every node box.
	NodeWidth = 240.0

	// HeaderHeight is the height of the box header (entity name + kind).
	HeaderHeight = 36.0

	// ColumnRowHeight is the height of one column row inside a box.
	ColumnRowHeight = 24.0

	// HorizontalGap separates adjacent depth columns, leaving room for
	// edge routing between them.
	HorizontalGap = 120.0

	// VerticalGap separates stacked boxes within one depth column.
	VerticalGap = 40.0

	// Padding is the minimum distance from the canvas edge to any box.
	Padding = 24.0

	// MarkerClearance backs an edge endpoint off the target box edge so
	// the arrowhead marker is not swallowed by the box border.
	MarkerClearance = 6.0

	// componentGap is the number of depth columns reserved between two
	// consecutive components (one occupied-past-max plus one empty).
	componentGap = 2
)

// DefaultViewportWidth and DefaultViewportHeight size the canvas when the
// caller has no real viewport to report.
const (
	DefaultViewportWidth  = 1280.0
	DefaultViewportHeight = 800.0
)

// Node is a lineage node augmented with its computed layout state.
// X and Y are the box center in layout space. Once Pinned is set by a drag,
// the position is owned by the user and no longer derived.
type Node struct {
	*lineage.Node

	Depth  int
	X, Y   float64
	Pinned bool
}

// BoxHeight returns the pixel height of the node's box:
// header plus one row per column. A node without columns renders as a
// header-only box.
func (n *Node) BoxHeight() float64 {
	return HeaderHeight + float64(len(n.Columns))*ColumnRowHeight
}

// Left returns the x coordinate of the box's left edge.
func (n *Node) Left() float64 { return n.X - NodeWidth/2 }

// Right returns the x coordinate of the box's right edge.
func (n *Node) Right() float64 { return n.X + NodeWidth/2 }

// Top returns the y coordinate of the box's top edge.
func (n *Node) Top() float64 { return n.Y - n.BoxHeight()/2 }

// Bottom returns the y coordinate of the box's bottom edge.
func (n *Node) Bottom() float64 { return n.Y + n.BoxHeight()/2 }

// Options configures a layout pass.
type Options struct {
	// ViewportWidth and ViewportHeight describe the visible canvas.
	// Vertical stacks are centered against ViewportHeight, and the final
	// canvas extent is clamped to at least the viewport so small graphs
	// still fill the visible area. Zero values fall back to the defaults.
	ViewportWidth  float64
	ViewportHeight float64
}

func (o Options) withDefaults() Options {
	if o.ViewportWidth <= 0 {
		o.ViewportWidth = DefaultViewportWidth
	}
	if o.ViewportHeight <= 0 {
		o.ViewportHeight = DefaultViewportHeight
	}
	return o
}

// Layout is the computed placement for one graph snapshot. It owns the
// derived node records; position updates go through [Layout.ApplyDrag]
// rather than through aliased graph nodes.
type Layout struct {
	graph *lineage.Graph
	nodes []*Node
	index map[string]*Node

	// Width and Height are the canvas extent: the maximum right/bottom
	// box edge plus padding, clamped to the viewport size.
	Width  float64
	Height float64
}

// Compute derives a fresh layout from the graph. The pass is deterministic:
// identical graphs produce identical depths and coordinates. An empty graph
// yields an empty layout with viewport-sized extent.
func Compute(g *lineage.Graph, opts Options) *Layout {
	opts = opts.withDefaults()

	l := &Layout{
		graph: g,
		index: make(map[string]*Node, g.NodeCount()),
	}
	for _, n := range g.Nodes() {
		ln := &Node{Node: n}
		l.nodes = append(l.nodes, ln)
		l.index[n.ID] = ln
	}

	order := g.NodeOrder()
	edges := g.ResolvedEdges()

	// Depth columns, one component at a time, offset left to right.
	offset := 0
	for _, comp := range components(g, edges, order) {
		depths, maxDepth := assignDepths(comp, edges, order)
		for id, d := range depths {
			l.index[id].Depth = d + offset
		}
		offset += maxDepth + componentGap
	}

	assignCoordinates(l, order, opts)
	return l
}

// Relayout re-derives coordinates for all unpinned nodes, typically after
// a viewport resize. Depths are kept; pinned nodes keep their dragged
// positions.
func (l *Layout) Relayout(opts Options) {
	assignCoordinates(l, l.graph.NodeOrder(), opts.withDefaults())
}

// Nodes returns all layout nodes in original graph order.
func (l *Layout) Nodes() []*Node { return l.nodes }

// Node returns the layout record for the given node ID.
func (l *Layout) Node(id string) (*Node, bool) {
	n, ok := l.index[id]
	return n, ok
}

// Graph returns the graph snapshot this layout was computed from.
func (l *Layout) Graph() *lineage.Graph { return l.graph }

// ApplyDrag moves a node by the given delta and pins it. A pinned node's
// position is taken verbatim from the accumulated drags for the lifetime
// of this layout; it is never recomputed. Unknown IDs are a no-op (drag
// events can race a graph swap) and report false.
func (l *Layout) ApplyDrag(id string, dx, dy float64) bool {
	n, ok := l.index[id]
	if !ok {
		return false
	}
	n.X += dx
	n.Y += dy
	n.Pinned = true
	return true
}
