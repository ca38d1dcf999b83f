package nodelink

import (
	"strings"
	"testing"

	"github.com/lineascope/lineascope/pkg/lineage"
)

func dotGraph(t *testing.T) *lineage.Graph {
	t.Helper()
	g := lineage.New()
	_ = g.AddNode(lineage.Node{ID: "raw", Kind: lineage.KindSource, Columns: []lineage.Column{{Name: "amount"}}})
	_ = g.AddNode(lineage.Node{ID: "agg", Kind: lineage.KindModel, Columns: []lineage.Column{{Name: "total"}}})
	g.AddEdge(lineage.Edge{SourceNodeID: "raw", SourceColumn: "amount", TargetNodeID: "agg", TargetColumn: "total"})
	g.AddEdge(lineage.Edge{SourceNodeID: "raw", SourceColumn: "amount", TargetNodeID: "ghost", TargetColumn: "x"})
	return g
}

func TestToDOT_Plain(t *testing.T) {
	dot := ToDOT(dotGraph(t), Options{})

	for _, want := range []string{
		"digraph lineage {",
		"rankdir=LR;",
		`"raw" [label="raw"];`,
		`"raw" -> "agg";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	// Dangling edges are not exported.
	if strings.Contains(dot, "ghost") {
		t.Error("DOT contains edge to unknown node")
	}
}

func TestToDOT_ColumnPorts(t *testing.T) {
	dot := ToDOT(dotGraph(t), Options{Columns: true})

	for _, want := range []string{
		`PORT="c_amount"`,
		`PORT="c_total"`,
		`"raw":c_amount -> "agg":c_total;`,
		"shape=plain",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
}

func TestToDOT_EscapesLabels(t *testing.T) {
	g := lineage.New()
	_ = g.AddNode(lineage.Node{ID: "t", Name: "a<b>", Columns: []lineage.Column{{Name: `x"y`}}})

	dot := ToDOT(g, Options{Columns: true})
	if strings.Contains(dot, "<b>") {
		t.Error("label not HTML-escaped")
	}
	if !strings.Contains(dot, "a&lt;b&gt;") {
		t.Error("expected escaped entity name")
	}
}

func TestPortName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"amount", "c_amount"},
		{"total sales", "c_total_sales"},
		{`weird"col`, "c_weird_col"},
		{"", "_"},
	}
	for _, tt := range tests {
		if got := portName(tt.in); got != tt.want {
			t.Errorf("portName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>
<svg width="8pt" height="6pt" viewBox="0.00 0.00 144.00 72.00" xmlns="http://www.w3.org/2000/svg">
<g></g>
</svg>`)

	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 144.00 72.00"`) {
		t.Errorf("viewBox not normalized:\n%s", out)
	}
	if !strings.Contains(out, `width="144" height="72"`) {
		t.Errorf("pixel dimensions not applied:\n%s", out)
	}
}

func TestNormalizeViewBox_NoViewBox(t *testing.T) {
	in := []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`)
	if got := string(normalizeViewBox(in)); got != string(in) {
		t.Errorf("SVG without viewBox should pass through unchanged, got %s", got)
	}
}
