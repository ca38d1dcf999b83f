package layout

import "sort"

// assignCoordinates maps depth columns onto pixel positions.
//
// Horizontally every node in depth d gets the same center-x, columns spaced
// NodeWidth+HorizontalGap apart. Vertically the nodes of one column are
// stacked with VerticalGap between box edges, the stack centered against
// the viewport height; within a column the original insertion order decides
// the stacking order. Pinned nodes keep their dragged positions and do not
// take part in the stacking.
//
// The whole arrangement is then shifted so no box edge sits closer than
// Padding to the canvas origin, and the canvas extent is set to the far
// edges plus Padding, clamped to the viewport.
func assignCoordinates(l *Layout, order map[string]int, opts Options) {
	columns := make(map[int][]*Node)
	for _, n := range l.nodes {
		if n.Pinned {
			continue
		}
		columns[n.Depth] = append(columns[n.Depth], n)
	}

	for depth, col := range columns {
		sort.Slice(col, func(i, j int) bool {
			return order[col[i].ID] < order[col[j].ID]
		})

		total := 0.0
		for i, n := range col {
			if i > 0 {
				total += VerticalGap
			}
			total += n.BoxHeight()
		}

		x := Padding + float64(depth)*(NodeWidth+HorizontalGap) + NodeWidth/2
		y := (opts.ViewportHeight - total) / 2
		for _, n := range col {
			n.X = x
			n.Y = y + n.BoxHeight()/2
			y += n.BoxHeight() + VerticalGap
		}
	}

	normalize(l, opts)
}

// normalize shifts all nodes when a box edge sits closer to the origin
// than Padding, then records the canvas extent. A centered stack taller
// than the viewport would otherwise start above y=0; stacks already inside
// the margin keep their centered positions.
func normalize(l *Layout, opts Options) {
	if len(l.nodes) == 0 {
		l.Width = opts.ViewportWidth
		l.Height = opts.ViewportHeight
		return
	}

	// Only derived positions shift; a pinned position is taken verbatim.
	minX, minY := 0.0, 0.0
	first := true
	for _, n := range l.nodes {
		if n.Pinned {
			continue
		}
		if v := n.Left(); first || v < minX {
			minX = v
		}
		if v := n.Top(); first || v < minY {
			minY = v
		}
		first = false
	}

	// Shift only by the deficit; a stack already clear of the margin
	// stays where centering put it.
	dx, dy := 0.0, 0.0
	if !first {
		if minX < Padding {
			dx = Padding - minX
		}
		if minY < Padding {
			dy = Padding - minY
		}
	}
	maxX, maxY := 0.0, 0.0
	for _, n := range l.nodes {
		if !n.Pinned {
			n.X += dx
			n.Y += dy
		}
		if v := n.Right(); v > maxX {
			maxX = v
		}
		if v := n.Bottom(); v > maxY {
			maxY = v
		}
	}

	l.Width = maxX + Padding
	l.Height = maxY + Padding
	if l.Width < opts.ViewportWidth {
		l.Width = opts.ViewportWidth
	}
	if l.Height < opts.ViewportHeight {
		l.Height = opts.ViewportHeight
	}
}
