package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/lineascope/lineascope/pkg/lineage"
	"github.com/lineascope/lineascope/pkg/lineage/layout"
)

// LayoutNode is the serialized position of one node box.
type LayoutNode struct {
	ID      string           `json:"id"`
	Name    string           `json:"name,omitempty"`
	Kind    lineage.NodeKind `json:"kind,omitempty"`
	Columns []lineage.Column `json:"columns"`
	Depth   int              `json:"depth"`
	X       float64          `json:"x"`
	Y       float64          `json:"y"`
	Width   float64          `json:"width"`
	Height  float64          `json:"height"`
	Pinned  bool             `json:"pinned,omitempty"`
}

// LayoutEdge is the serialized routing of one column-level edge.
type LayoutEdge struct {
	SourceNodeID string `json:"source_node_id"`
	SourceColumn string `json:"source_column"`
	TargetNodeID string `json:"target_node_id"`
	TargetColumn string `json:"target_column"`
	Path         string `json:"path"`
}

// LayoutSnapshot is the JSON view of a computed layout: canvas extent,
// node positions, and routed edge paths. It is what the json output
// format emits and what embedding frontends consume.
type LayoutSnapshot struct {
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Nodes  []LayoutNode `json:"nodes"`
	Edges  []LayoutEdge `json:"edges"`
}

// Snapshot exports a layout into its serializable form. Only resolved
// edges appear; dangling edges have no geometry.
func Snapshot(l *layout.Layout) LayoutSnapshot {
	snap := LayoutSnapshot{
		Width:  l.Width,
		Height: l.Height,
		Nodes:  make([]LayoutNode, 0, len(l.Nodes())),
		Edges:  []LayoutEdge{},
	}
	for _, n := range l.Nodes() {
		snap.Nodes = append(snap.Nodes, LayoutNode{
			ID:      n.ID,
			Name:    n.Name,
			Kind:    n.Kind,
			Columns: n.Columns,
			Depth:   n.Depth,
			X:       n.X,
			Y:       n.Y,
			Width:   layout.NodeWidth,
			Height:  n.BoxHeight(),
			Pinned:  n.Pinned,
		})
	}
	for _, e := range l.Graph().ResolvedEdges() {
		geom, ok := l.EdgeGeometry(e)
		if !ok {
			continue
		}
		snap.Edges = append(snap.Edges, LayoutEdge{
			SourceNodeID: e.SourceNodeID,
			SourceColumn: e.SourceColumn,
			TargetNodeID: e.TargetNodeID,
			TargetColumn: e.TargetColumn,
			Path:         geom.Path(),
		})
	}
	return snap
}

// MarshalLayout serializes a layout snapshot to JSON.
func MarshalLayout(snap LayoutSnapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}
	return data, nil
}

// UnmarshalLayout deserializes a layout snapshot from JSON.
func UnmarshalLayout(data []byte) (LayoutSnapshot, error) {
	var snap LayoutSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return LayoutSnapshot{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	return snap, nil
}
