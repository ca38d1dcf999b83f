package layout

import (
	"sort"

	"github.com/lineascope/lineascope/pkg/lineage"
)

// assignDepths computes the longest-path depth of every node in a single
// component. A node with no incoming edges sits at depth 0; every other
// node sits one past its deepest parent. Returns the depth map and the
// maximum assigned depth.
//
// Cycles never reach zero in-degree under Kahn's algorithm, so any node
// left unassigned after the queue drains is collapsed to depth 0. The
// graph is rendered with an imperfect layering rather than rejected.
func assignDepths(member []string, edges []lineage.Edge, order map[string]int) (map[string]int, int) {
	inComp := make(map[string]bool, len(member))
	for _, id := range member {
		inComp[id] = true
	}

	adj := make(map[string][]string, len(member))
	indeg := make(map[string]int, len(member))
	for _, e := range edges {
		if !inComp[e.SourceNodeID] || !inComp[e.TargetNodeID] {
			continue
		}
		adj[e.SourceNodeID] = append(adj[e.SourceNodeID], e.TargetNodeID)
		indeg[e.TargetNodeID]++
	}
	for id := range adj {
		children := adj[id]
		sort.Slice(children, func(i, j int) bool {
			return order[children[i]] < order[children[j]]
		})
	}

	depths := make(map[string]int, len(member))
	var queue []string
	for _, id := range member {
		if indeg[id] == 0 {
			depths[id] = 0
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, child := range adj[curr] {
			if d := depths[curr] + 1; d > depths[child] {
				depths[child] = d
			}
			indeg[child]--
			if indeg[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	// Nodes still holding in-degree sit on a cycle and never drained.
	// Park them at depth 0, even if an acyclic parent relaxed them.
	maxDepth := 0
	for _, id := range member {
		if indeg[id] > 0 {
			depths[id] = 0
			continue
		}
		if depths[id] > maxDepth {
			maxDepth = depths[id]
		}
	}
	return depths, maxDepth
}
