package layout

import (
	"sort"

	"github.com/lineascope/lineascope/pkg/lineage"
)

// components partitions the graph's node IDs into weakly connected
// components. Edge direction is ignored for membership. Components are
// emitted in order of their earliest node in the original insertion order,
// and each component's members are sorted by that same order, so the
// decomposition is deterministic for a given graph.
func components(g *lineage.Graph, edges []lineage.Edge, order map[string]int) [][]string {
	adj := make(map[string][]string, g.NodeCount())
	for _, e := range edges {
		adj[e.SourceNodeID] = append(adj[e.SourceNodeID], e.TargetNodeID)
		adj[e.TargetNodeID] = append(adj[e.TargetNodeID], e.SourceNodeID)
	}

	seen := make(map[string]bool, g.NodeCount())
	var comps [][]string

	for _, n := range g.Nodes() {
		if seen[n.ID] {
			continue
		}
		// BFS from the earliest unvisited node. An isolated node forms
		// a singleton component.
		var members []string
		queue := []string{n.ID}
		seen[n.ID] = true
		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			members = append(members, curr)
			for _, next := range adj[curr] {
				if !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
		sort.Slice(members, func(i, j int) bool {
			return order[members[i]] < order[members[j]]
		})
		comps = append(comps, members)
	}
	return comps
}
