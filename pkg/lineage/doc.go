// Package lineage defines the column-level lineage graph model.
//
// # Overview
//
// A lineage graph describes how data flows through SQL entities: source
// tables, CTEs, views, and models appear as nodes, each carrying an ordered
// list of columns, and directed edges connect a column of one node to a
// column of another. The graph arrives from an external extractor and is
// treated as untrusted input - see [Ingest] for the boundary rules.
//
// # Serialization
//
// Graphs round-trip through a simple JSON wire format:
//
//	{
//	  "nodes": [
//	    {"id": "orders", "kind": "source", "columns": [{"name": "id", "type": "bigint"}]},
//	    {"id": "stg_orders", "kind": "model", "columns": [{"name": "order_id", "type": "bigint"}]}
//	  ],
//	  "edges": [
//	    {"source_node_id": "orders", "source_column": "id",
//	     "target_node_id": "stg_orders", "target_column": "order_id"}
//	  ]
//	}
//
// Use [ReadGraphFile]/[WriteGraphFile] for files and [Ingest] for raw wire
// payloads from the extraction service.
//
// # Guarantees
//
// After ingestion the following invariants hold and downstream packages
// rely on them:
//
//   - Node IDs are unique
//   - Column lists are never nil (possibly empty)
//   - Node order and column order match the producer's order exactly
//
// Edge endpoints are NOT guaranteed to resolve; use [Graph.ResolvedEdges]
// when only drawable edges are wanted.
package lineage
