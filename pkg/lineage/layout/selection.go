package layout

import "github.com/lineascope/lineascope/pkg/lineage"

// Emphasis is the visual state of an edge or column under a selection.
type Emphasis string

const (
	// EmphasisNeutral is the resting state with no active selection.
	EmphasisNeutral Emphasis = "neutral"
	// EmphasisRelated marks elements connected to the selection.
	EmphasisRelated Emphasis = "related"
	// EmphasisUnrelated marks elements dimmed by an active selection.
	EmphasisUnrelated Emphasis = "unrelated"
)

// Selection tracks the currently highlighted edge. The zero value has no
// active selection and classifies everything as neutral.
type Selection struct {
	active bool
	edge   lineage.Edge
}

// Select activates highlighting for the given edge. Selecting a new edge
// replaces the previous one.
func (s *Selection) Select(e lineage.Edge) {
	s.active = true
	s.edge = e
}

// Clear drops the selection, returning everything to neutral.
func (s *Selection) Clear() {
	*s = Selection{}
}

// Active reports whether a selection is in effect and, if so, which edge.
func (s *Selection) Active() (lineage.Edge, bool) {
	return s.edge, s.active
}

// ClassifyEdge returns the emphasis for an edge under the current
// selection. The selected edge and every edge sharing one of its column
// endpoints are related; all other edges are unrelated.
func (s *Selection) ClassifyEdge(e lineage.Edge) Emphasis {
	if !s.active {
		return EmphasisNeutral
	}
	if e == s.edge || e.SharesEndpoint(s.edge) {
		return EmphasisRelated
	}
	return EmphasisUnrelated
}

// ClassifyColumn returns the emphasis for a node column. A column is
// related when it is an endpoint of the selected edge.
func (s *Selection) ClassifyColumn(nodeID, column string) Emphasis {
	if !s.active {
		return EmphasisNeutral
	}
	if (s.edge.SourceNodeID == nodeID && s.edge.SourceColumn == column) ||
		(s.edge.TargetNodeID == nodeID && s.edge.TargetColumn == column) {
		return EmphasisRelated
	}
	return EmphasisUnrelated
}
