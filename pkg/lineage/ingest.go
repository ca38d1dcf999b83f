package lineage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Ingest decodes a graph from an untrusted producer and coerces it into a
// valid [Graph]. The extraction service is not guaranteed to be correct, so
// ingestion is lenient where the strict reader is not:
//
//   - Nodes with an empty ID are dropped.
//   - Duplicate node IDs keep the first occurrence; later ones are dropped.
//   - Nil or missing column lists become explicit empty lists.
//   - Node, column, and edge identifiers are whitespace-trimmed.
//   - Edges are kept verbatim, including ones whose endpoints do not
//     resolve; those are excluded from drawing later, not rejected here.
//
// Only malformed JSON is an error. Everything structurally odd but
// decodable degrades per the policies above, because the visualizer's job
// is best-effort display of whatever the producer managed to emit.
func Ingest(r io.Reader) (*Graph, error) {
	var data wireGraph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	return coerce(data), nil
}

// IngestBytes is a convenience wrapper around [Ingest] for in-memory payloads.
func IngestBytes(data []byte) (*Graph, error) {
	return Ingest(bytes.NewReader(data))
}

func coerce(data wireGraph) *Graph {
	g := New()
	for _, n := range data.Nodes {
		n.ID = strings.TrimSpace(n.ID)
		n.Name = strings.TrimSpace(n.Name)
		n.Kind = normalizeKind(n.Kind)
		n.Columns = coerceColumns(n.Columns)
		// AddNode rejects empty and duplicate IDs; both are dropped.
		_ = g.AddNode(n)
	}
	for _, e := range data.Edges {
		e.SourceNodeID = strings.TrimSpace(e.SourceNodeID)
		e.SourceColumn = strings.TrimSpace(e.SourceColumn)
		e.TargetNodeID = strings.TrimSpace(e.TargetNodeID)
		e.TargetColumn = strings.TrimSpace(e.TargetColumn)
		if e.SourceNodeID == "" || e.TargetNodeID == "" {
			continue
		}
		g.AddEdge(e)
	}
	return g
}

func coerceColumns(cols []Column) []Column {
	out := make([]Column, 0, len(cols))
	for _, c := range cols {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// normalizeKind maps free-form kind strings from the producer onto the
// known kinds. Unknown kinds default to table so the node still renders.
func normalizeKind(k NodeKind) NodeKind {
	switch NodeKind(strings.ToLower(strings.TrimSpace(string(k)))) {
	case KindSource:
		return KindSource
	case KindModel:
		return KindModel
	case KindView:
		return KindView
	case KindCTE:
		return KindCTE
	default:
		return KindTable
	}
}
