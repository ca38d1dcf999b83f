// Package layout turns a lineage graph into a deterministic 2-D layered
// layout: every node gets an integer depth column, a vertical stacking
// position, and absolute pixel coordinates for its box center.
//
// # Pipeline
//
// [Compute] runs four stages over a graph snapshot:
//
//  1. Component decomposition - nodes are partitioned into connected
//     components over the undirected closure of the edges, ordered by
//     first appearance in the input.
//  2. Depth assignment - longest-path layering per component via a Kahn
//     traversal that tracks maximum incoming depth. Nodes trapped in
//     cycles collapse to depth 0. Components are offset left-to-right
//     with a gap column between them.
//  3. Coordinate assignment - depths map to x columns; nodes stack
//     vertically inside each column, centered against the viewport.
//  4. Normalization - everything shifts so the tightest-bound box sits
//     exactly at the padding margin.
//
// The result is pure: computing the same graph twice yields identical
// coordinates. Interactive state (drag pins, edge selection) is layered on
// top of the computed [Layout] and never feeds back into the algorithm.
//
// # Cycles
//
// Lineage graphs from real SQL are almost always acyclic, but the producer
// is untrusted, so cycles must not hang or crash layout. Members of a cycle
// that topological resolution cannot reach are explicitly assigned depth 0.
// This can place a cyclic node left of nodes that causally depend on it;
// the resulting upstream-pointing arrow is accepted for this degenerate case.
package layout
