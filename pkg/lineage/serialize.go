package lineage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// wireGraph is the JSON shape shared by files, the HTTP API, and the
// extraction boundary.
type wireGraph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// MarshalGraph converts a graph to JSON bytes.
// Nodes and edges keep their original order for round-trip fidelity.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a graph as indented JSON to w.
func WriteGraph(g *Graph, w io.Writer) error {
	return writeGraphTo(g, w)
}

// WriteGraphFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, f)
}

// ReadGraph decodes a JSON graph from r.
// Unlike [Ingest], this is the strict reader for files the tool wrote
// itself: duplicate node IDs are an error rather than a coercion.
func ReadGraph(r io.Reader) (*Graph, error) {
	var data wireGraph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := New()
	for _, n := range data.Nodes {
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		g.AddEdge(e)
	}
	return g, nil
}

// ReadGraphFile reads a JSON file and returns the decoded graph.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

func writeGraphTo(g *Graph, w io.Writer) error {
	out := wireGraph{
		Nodes: make([]Node, len(g.nodes)),
		Edges: g.Edges(),
	}
	for i, n := range g.nodes {
		out.Nodes[i] = *n
	}
	if out.Edges == nil {
		out.Edges = []Edge{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
