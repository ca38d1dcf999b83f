package layout_test

import (
	"fmt"

	"github.com/lineascope/lineascope/pkg/lineage"
	"github.com/lineascope/lineascope/pkg/lineage/layout"
)

func ExampleCompute() {
	// raw_orders feeds orders, which feeds the revenue model.
	g := lineage.New()
	_ = g.AddNode(lineage.Node{ID: "raw_orders", Kind: lineage.KindSource, Columns: []lineage.Column{{Name: "amount"}}})
	_ = g.AddNode(lineage.Node{ID: "orders", Kind: lineage.KindTable, Columns: []lineage.Column{{Name: "amount"}}})
	_ = g.AddNode(lineage.Node{ID: "revenue", Kind: lineage.KindModel, Columns: []lineage.Column{{Name: "total"}}})
	g.AddEdge(lineage.Edge{SourceNodeID: "raw_orders", SourceColumn: "amount", TargetNodeID: "orders", TargetColumn: "amount"})
	g.AddEdge(lineage.Edge{SourceNodeID: "orders", SourceColumn: "amount", TargetNodeID: "revenue", TargetColumn: "total"})

	l := layout.Compute(g, layout.Options{})
	for _, n := range l.Nodes() {
		fmt.Printf("%s: depth %d\n", n.ID, n.Depth)
	}
	fmt.Printf("edges routed: %d\n", len(l.EdgeGeometries()))
	// Output:
	// raw_orders: depth 0
	// orders: depth 1
	// revenue: depth 2
	// edges routed: 2
}

func ExampleLayout_ApplyDrag() {
	g := lineage.New()
	_ = g.AddNode(lineage.Node{ID: "users", Columns: []lineage.Column{{Name: "id"}}})

	l := layout.Compute(g, layout.Options{})
	l.ApplyDrag("users", 40, -10)

	n, _ := l.Node("users")
	fmt.Println("pinned:", n.Pinned)
	// Output:
	// pinned: true
}
