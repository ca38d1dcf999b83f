package layout

import (
	"fmt"

	"github.com/lineascope/lineascope/pkg/lineage"
)

// Side names the box edge an endpoint attaches to.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Endpoint is one end of a routed edge: a point on a box edge at the
// vertical center of the referenced column row.
type Endpoint struct {
	X, Y float64
	Side Side
}

// EdgeGeometry is the routed shape of one column-level edge: its two
// endpoints plus the control points of a cubic bezier between them.
type EdgeGeometry struct {
	Source Endpoint
	Target Endpoint

	// C1 and C2 are the bezier control points. They extend horizontally
	// from their endpoints so the curve leaves and enters boxes flat.
	C1X, C1Y float64
	C2X, C2Y float64
}

// Path renders the geometry as an SVG path description.
func (eg EdgeGeometry) Path() string {
	return fmt.Sprintf("M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f",
		eg.Source.X, eg.Source.Y, eg.C1X, eg.C1Y, eg.C2X, eg.C2Y, eg.Target.X, eg.Target.Y)
}

// anchorY returns the y coordinate of a column's attachment point on the
// node: the vertical center of its row. An absent column anchors at the
// box top, so edges referencing stale column names still render.
func anchorY(n *Node, column string) float64 {
	idx := n.ColumnIndex(column)
	if idx < 0 {
		return n.Top()
	}
	return n.Top() + HeaderHeight + float64(idx)*ColumnRowHeight + ColumnRowHeight/2
}

// EdgeGeometries routes every resolved edge of the layout's graph.
// Edges whose endpoints are missing from the layout are skipped.
func (l *Layout) EdgeGeometries() []EdgeGeometry {
	edges := l.graph.ResolvedEdges()
	out := make([]EdgeGeometry, 0, len(edges))
	for _, e := range edges {
		if eg, ok := l.EdgeGeometry(e); ok {
			out = append(out, eg)
		}
	}
	return out
}

// EdgeGeometry routes a single edge between its columns' anchor points.
//
// Sides follow the flow direction: when the source box center sits left of
// the target's, the edge leaves the source's right edge and enters the
// target's left edge; when the flow runs backwards the sides invert, so
// the curve bows around rather than cutting through the boxes. The target
// endpoint is backed off by MarkerClearance for the arrowhead.
func (l *Layout) EdgeGeometry(e lineage.Edge) (EdgeGeometry, bool) {
	src, ok := l.index[e.SourceNodeID]
	if !ok {
		return EdgeGeometry{}, false
	}
	dst, ok := l.index[e.TargetNodeID]
	if !ok {
		return EdgeGeometry{}, false
	}

	sy := anchorY(src, e.SourceColumn)
	ty := anchorY(dst, e.TargetColumn)

	var eg EdgeGeometry
	if src.X <= dst.X {
		eg.Source = Endpoint{X: src.Right(), Y: sy, Side: SideRight}
		eg.Target = Endpoint{X: dst.Left() - MarkerClearance, Y: ty, Side: SideLeft}
	} else {
		eg.Source = Endpoint{X: src.Left(), Y: sy, Side: SideLeft}
		eg.Target = Endpoint{X: dst.Right() + MarkerClearance, Y: ty, Side: SideRight}
	}

	// Control points stretch half the horizontal span from each endpoint,
	// pointing away from their box.
	span := eg.Target.X - eg.Source.X
	if span < 0 {
		span = -span
	}
	reach := span / 2
	if reach < HorizontalGap/2 {
		reach = HorizontalGap / 2
	}
	eg.C1X, eg.C1Y = eg.Source.X+direction(eg.Source.Side)*reach, eg.Source.Y
	eg.C2X, eg.C2Y = eg.Target.X+direction(eg.Target.Side)*reach, eg.Target.Y
	return eg, true
}

func direction(s Side) float64 {
	if s == SideRight {
		return 1
	}
	return -1
}
