package svg

import (
	"strings"
	"testing"

	"github.com/lineascope/lineascope/pkg/lineage"
	"github.com/lineascope/lineascope/pkg/lineage/layout"
)

func renderedLayout(t *testing.T) (*lineage.Graph, *layout.Layout) {
	t.Helper()
	g := lineage.New()
	_ = g.AddNode(lineage.Node{ID: "raw", Kind: lineage.KindSource, Columns: []lineage.Column{{Name: "amount", Type: "numeric"}}})
	_ = g.AddNode(lineage.Node{ID: "agg", Kind: lineage.KindModel, Columns: []lineage.Column{{Name: "total"}}})
	g.AddEdge(lineage.Edge{SourceNodeID: "raw", SourceColumn: "amount", TargetNodeID: "agg", TargetColumn: "total"})
	return g, layout.Compute(g, layout.Options{})
}

func TestRender_ContainsNodesAndEdges(t *testing.T) {
	_, l := renderedLayout(t)
	out := string(Render(l))

	if !strings.HasPrefix(out, "<svg ") || !strings.HasSuffix(out, "</svg>\n") {
		t.Error("output is not a complete SVG document")
	}
	for _, want := range []string{`id="node-raw"`, `id="node-agg"`, "amount", "numeric", `class="edge"`, "marker-end"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRender_SelectionEmphasis(t *testing.T) {
	g, l := renderedLayout(t)

	var sel layout.Selection
	sel.Select(g.Edges()[0])
	out := string(Render(l, WithSelection(&sel)))

	if !strings.Contains(out, `class="edge related"`) {
		t.Error("selected edge not emphasized")
	}
	if !strings.Contains(out, `class="column-row related"`) {
		t.Error("endpoint columns not emphasized")
	}
}

func TestRender_DimsUnrelatedEdges(t *testing.T) {
	g := lineage.New()
	_ = g.AddNode(lineage.Node{ID: "a", Columns: []lineage.Column{{Name: "x"}, {Name: "y"}}})
	_ = g.AddNode(lineage.Node{ID: "b", Columns: []lineage.Column{{Name: "x"}, {Name: "y"}}})
	g.AddEdge(lineage.Edge{SourceNodeID: "a", SourceColumn: "x", TargetNodeID: "b", TargetColumn: "x"})
	g.AddEdge(lineage.Edge{SourceNodeID: "a", SourceColumn: "y", TargetNodeID: "b", TargetColumn: "y"})
	l := layout.Compute(g, layout.Options{})

	var sel layout.Selection
	sel.Select(g.Edges()[0])
	out := string(Render(l, WithSelection(&sel)))

	if !strings.Contains(out, `class="edge unrelated"`) {
		t.Error("unrelated edge not dimmed")
	}
}

func TestRender_EscapesText(t *testing.T) {
	g := lineage.New()
	_ = g.AddNode(lineage.Node{ID: "t", Name: `a<b>&"c"`, Columns: []lineage.Column{{Name: "x<y"}}})
	l := layout.Compute(g, layout.Options{})

	out := string(Render(l))
	if strings.Contains(out, "<b>") {
		t.Error("node name not escaped")
	}
	if !strings.Contains(out, "a&lt;b&gt;&amp;&quot;c&quot;") {
		t.Error("expected escaped entity text")
	}
}

func TestRender_ViewBoxMatchesExtent(t *testing.T) {
	_, l := renderedLayout(t)
	out := string(Render(l))

	if !strings.Contains(out, `viewBox="0 0 `) {
		t.Error("viewBox missing or not origin-anchored")
	}
}

func TestRender_EmptyLayout(t *testing.T) {
	l := layout.Compute(lineage.New(), layout.Options{})
	out := string(Render(l))

	if !strings.HasPrefix(out, "<svg ") {
		t.Error("empty layout should still produce a document")
	}
	if strings.Contains(out, `class="node"`) {
		t.Error("empty layout should contain no nodes")
	}
}
