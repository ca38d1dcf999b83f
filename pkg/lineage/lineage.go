package lineage

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")
)

// NodeKind classifies the kind of entity a node represents.
type NodeKind string

// Entity kinds produced by the extraction boundary.
const (
	KindSource NodeKind = "source"
	KindTable  NodeKind = "table"
	KindModel  NodeKind = "model"
	KindView   NodeKind = "view"
	KindCTE    NodeKind = "cte"
)

// Column is a single column row inside a node box. Name identifies the
// column within its owning node; Type is free-form descriptive text.
type Column struct {
	Name string `json:"name" bson:"name"`
	Type string `json:"type,omitempty" bson:"type,omitempty"`
}

// Node represents a table, CTE, view, or model entity in the lineage graph.
// Column order is significant: it determines the vertical row position of
// each column inside the rendered box and is never re-sorted.
type Node struct {
	ID      string   `json:"id" bson:"id"`
	Name    string   `json:"name,omitempty" bson:"name,omitempty"`
	Kind    NodeKind `json:"kind,omitempty" bson:"kind,omitempty"`
	Columns []Column `json:"columns" bson:"columns"`
}

// DisplayName returns the name if set, otherwise the ID.
func (n *Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// ColumnIndex returns the position of the named column in the node's column
// list, or -1 if the column is not present. The first match wins when a
// producer emits duplicate column names.
func (n *Node) ColumnIndex(name string) int {
	for i, c := range n.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Edge is a directed column-to-column dependency between two nodes.
// Multiple edges may share endpoints; edges are never deduplicated.
type Edge struct {
	SourceNodeID string `json:"source_node_id" bson:"source_node_id"`
	SourceColumn string `json:"source_column" bson:"source_column"`
	TargetNodeID string `json:"target_node_id" bson:"target_node_id"`
	TargetColumn string `json:"target_column" bson:"target_column"`
}

// SharesEndpoint reports whether the two edges reference the same source
// column pair or the same target column pair. This is the relatedness
// predicate used for selection highlighting.
func (e Edge) SharesEndpoint(other Edge) bool {
	if e.SourceNodeID == other.SourceNodeID && e.SourceColumn == other.SourceColumn {
		return true
	}
	return e.TargetNodeID == other.TargetNodeID && e.TargetColumn == other.TargetColumn
}

// Graph is a column-level lineage graph: entities as nodes, column
// dependencies as directed edges. Node order and edge order both match
// insertion order, which downstream layout relies on for determinism.
//
// Edge endpoints are not required to resolve to known nodes or columns.
// The producer of the graph sits on the other side of an untrusted
// boundary; unresolvable edges are tolerated here and simply not drawn.
//
// The zero value is not usable - use New to create a Graph.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes []*Node
	index map[string]*Node
	edges []Edge
}

// New creates an empty lineage graph.
func New() *Graph {
	return &Graph{index: make(map[string]*Node)}
}

// AddNode appends a node to the graph, preserving insertion order.
// Returns ErrInvalidNodeID for an empty ID or ErrDuplicateNodeID when the
// ID is already taken. A nil column list is coerced to an empty one so the
// rest of the system can assume Columns is never nil.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.index[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Columns == nil {
		n.Columns = []Column{}
	}
	node := &n
	g.nodes = append(g.nodes, node)
	g.index[node.ID] = node
	return nil
}

// AddEdge appends an edge. Endpoints are deliberately not validated: the
// graph comes from an external producer and dangling references are dropped
// at render time instead of rejected here.
func (g *Graph) AddEdge(e Edge) {
	g.edges = append(g.edges, e)
}

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Nodes returns all nodes in original insertion order. The returned slice
// must not be modified; it is the graph's backing slice.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// ResolvedEdges returns the edges whose source and target node IDs both
// resolve to known nodes. Column names are not checked: a missing column
// degrades to a header anchor during geometry resolution, whereas a missing
// node makes the edge undrawable.
func (g *Graph) ResolvedEdges() []Edge {
	var out []Edge
	for _, e := range g.edges {
		if _, ok := g.index[e.SourceNodeID]; !ok {
			continue
		}
		if _, ok := g.index[e.TargetNodeID]; !ok {
			continue
		}
		out = append(out, e)
	}
	return out
}

// NodeOrder returns a map from node ID to its original position in the
// node list. Layout uses this for deterministic tie-breaking.
func (g *Graph) NodeOrder() map[string]int {
	m := make(map[string]int, len(g.nodes))
	for i, n := range g.nodes {
		m[n.ID] = i
	}
	return m
}
