package layout

import (
	"testing"

	"github.com/lineascope/lineascope/pkg/lineage"
)

func buildGraph(t *testing.T, ids []string, edges []lineage.Edge) *lineage.Graph {
	t.Helper()
	g := lineage.New()
	for _, id := range ids {
		if err := g.AddNode(lineage.Node{ID: id, Columns: []lineage.Column{{Name: "c"}}}); err != nil {
			t.Fatalf("AddNode(%q) = %v", id, err)
		}
	}
	for _, e := range edges {
		g.AddEdge(e)
	}
	return g
}

func edge(src, dst string) lineage.Edge {
	return lineage.Edge{SourceNodeID: src, SourceColumn: "c", TargetNodeID: dst, TargetColumn: "c"}
}

func depthOf(t *testing.T, l *Layout, id string) int {
	t.Helper()
	n, ok := l.Node(id)
	if !ok {
		t.Fatalf("Node(%q) missing from layout", id)
	}
	return n.Depth
}

func TestCompute_LinearChain(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c"}, []lineage.Edge{edge("a", "b"), edge("b", "c")})
	l := Compute(g, Options{})

	want := map[string]int{"a": 0, "b": 1, "c": 2}
	for id, d := range want {
		if got := depthOf(t, l, id); got != d {
			t.Errorf("depth(%s) = %d, want %d", id, got, d)
		}
	}
}

func TestCompute_DiamondLongestPath(t *testing.T) {
	// a → b → d and a → c → d; d sits one past its deepest parent.
	g := buildGraph(t, []string{"a", "b", "c", "d"},
		[]lineage.Edge{edge("a", "b"), edge("a", "c"), edge("b", "d"), edge("c", "d")})
	l := Compute(g, Options{})

	if got := depthOf(t, l, "d"); got != 2 {
		t.Errorf("depth(d) = %d, want 2", got)
	}
	if got := depthOf(t, l, "b"); got != 1 {
		t.Errorf("depth(b) = %d, want 1", got)
	}
}

func TestCompute_UnevenDiamond(t *testing.T) {
	// a → d directly and a → b → c → d; the long arm wins.
	g := buildGraph(t, []string{"a", "b", "c", "d"},
		[]lineage.Edge{edge("a", "d"), edge("a", "b"), edge("b", "c"), edge("c", "d")})
	l := Compute(g, Options{})

	if got := depthOf(t, l, "d"); got != 3 {
		t.Errorf("depth(d) = %d, want 3", got)
	}
}

func TestCompute_DisconnectedComponentsOffset(t *testing.T) {
	// Two chains: a → b (max depth 1) and x → y. The second component
	// starts two columns past the first's deepest node.
	g := buildGraph(t, []string{"a", "b", "x", "y"},
		[]lineage.Edge{edge("a", "b"), edge("x", "y")})
	l := Compute(g, Options{})

	if got := depthOf(t, l, "x"); got != 3 {
		t.Errorf("depth(x) = %d, want 3", got)
	}
	if got := depthOf(t, l, "y"); got != 4 {
		t.Errorf("depth(y) = %d, want 4", got)
	}
}

func TestCompute_IsolatedNodesAreSingletonComponents(t *testing.T) {
	g := buildGraph(t, []string{"a", "b"}, nil)
	l := Compute(g, Options{})

	if got := depthOf(t, l, "a"); got != 0 {
		t.Errorf("depth(a) = %d, want 0", got)
	}
	if got := depthOf(t, l, "b"); got != 2 {
		t.Errorf("depth(b) = %d, want 2", got)
	}
}

func TestCompute_CycleCollapsesToDepthZero(t *testing.T) {
	g := buildGraph(t, []string{"a", "b"}, []lineage.Edge{edge("a", "b"), edge("b", "a")})
	l := Compute(g, Options{})

	if got := depthOf(t, l, "a"); got != 0 {
		t.Errorf("depth(a) = %d, want 0", got)
	}
	if got := depthOf(t, l, "b"); got != 0 {
		t.Errorf("depth(b) = %d, want 0", got)
	}
}

func TestCompute_CycleFedByAcyclicPrefix(t *testing.T) {
	// r → x, with x ↔ y cycling. The cycle members collapse to depth 0
	// even though r relaxed x before the queue drained.
	g := buildGraph(t, []string{"r", "x", "y"},
		[]lineage.Edge{edge("r", "x"), edge("x", "y"), edge("y", "x")})
	l := Compute(g, Options{})

	if got := depthOf(t, l, "r"); got != 0 {
		t.Errorf("depth(r) = %d, want 0", got)
	}
	if got := depthOf(t, l, "x"); got != 0 {
		t.Errorf("depth(x) = %d, want 0", got)
	}
	if got := depthOf(t, l, "y"); got != 0 {
		t.Errorf("depth(y) = %d, want 0", got)
	}
}

func TestCompute_SelfLoopCollapses(t *testing.T) {
	g := buildGraph(t, []string{"a"}, []lineage.Edge{edge("a", "a")})
	l := Compute(g, Options{})

	if got := depthOf(t, l, "a"); got != 0 {
		t.Errorf("depth(a) = %d, want 0", got)
	}
}

func TestCompute_DanglingEdgesIgnored(t *testing.T) {
	g := buildGraph(t, []string{"a", "b"}, []lineage.Edge{edge("a", "b"), edge("a", "ghost")})
	l := Compute(g, Options{})

	if got := depthOf(t, l, "b"); got != 1 {
		t.Errorf("depth(b) = %d, want 1", got)
	}
	if got := len(l.Nodes()); got != 2 {
		t.Errorf("len(Nodes()) = %d, want 2", got)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	build := func() *lineage.Graph {
		return buildGraph(t, []string{"a", "b", "c", "d", "e"},
			[]lineage.Edge{edge("a", "c"), edge("b", "c"), edge("c", "d"), edge("c", "e")})
	}

	l1 := Compute(build(), Options{})
	l2 := Compute(build(), Options{})

	for _, n1 := range l1.Nodes() {
		n2, ok := l2.Node(n1.ID)
		if !ok {
			t.Fatalf("second layout missing %q", n1.ID)
		}
		if n1.Depth != n2.Depth || n1.X != n2.X || n1.Y != n2.Y {
			t.Errorf("node %s: (%d, %.1f, %.1f) vs (%d, %.1f, %.1f)",
				n1.ID, n1.Depth, n1.X, n1.Y, n2.Depth, n2.X, n2.Y)
		}
	}
}

func TestCompute_CoordinatesRespectPadding(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c", "d"},
		[]lineage.Edge{edge("a", "b"), edge("b", "c"), edge("c", "d")})
	l := Compute(g, Options{ViewportWidth: 100, ViewportHeight: 100})

	for _, n := range l.Nodes() {
		if n.Left() < Padding {
			t.Errorf("node %s left edge %.1f, want >= %.1f", n.ID, n.Left(), Padding)
		}
		if n.Top() < Padding {
			t.Errorf("node %s top edge %.1f, want >= %.1f", n.ID, n.Top(), Padding)
		}
	}
}

func TestCompute_SmallStackCenteredVertically(t *testing.T) {
	// A stack shorter than the viewport keeps its centered position
	// instead of being dragged up to the padding margin.
	g := buildGraph(t, []string{"a"}, nil)
	l := Compute(g, Options{})

	n, _ := l.Node("a")
	if want := DefaultViewportHeight / 2; n.Y != want {
		t.Errorf("center y = %.1f, want %.1f", n.Y, want)
	}
}

func TestCompute_EachShortColumnCentered(t *testing.T) {
	g := buildGraph(t, []string{"a", "b"}, []lineage.Edge{edge("a", "b")})
	l := Compute(g, Options{ViewportWidth: 1280, ViewportHeight: 800})

	na, _ := l.Node("a")
	nb, _ := l.Node("b")
	if na.Y != 400 || nb.Y != 400 {
		t.Errorf("centers = %.1f, %.1f, want 400, 400", na.Y, nb.Y)
	}
}

func TestCompute_DepthColumnsShareX(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "x", "y"},
		[]lineage.Edge{edge("a", "x"), edge("b", "x"), edge("b", "y")})
	l := Compute(g, Options{})

	na, _ := l.Node("a")
	nb, _ := l.Node("b")
	nx, _ := l.Node("x")
	ny, _ := l.Node("y")

	if na.X != nb.X {
		t.Errorf("depth-0 nodes disagree on x: %.1f vs %.1f", na.X, nb.X)
	}
	if nx.X != ny.X {
		t.Errorf("depth-1 nodes disagree on x: %.1f vs %.1f", nx.X, ny.X)
	}
	if want := na.X + NodeWidth + HorizontalGap; nx.X != want {
		t.Errorf("depth-1 x = %.1f, want %.1f", nx.X, want)
	}
}

func TestCompute_StackedNodesDoNotOverlap(t *testing.T) {
	g := lineage.New()
	_ = g.AddNode(lineage.Node{ID: "a", Columns: []lineage.Column{{Name: "c1"}, {Name: "c2"}, {Name: "c3"}}})
	_ = g.AddNode(lineage.Node{ID: "b", Columns: []lineage.Column{{Name: "c1"}}})
	_ = g.AddNode(lineage.Node{ID: "c", Columns: nil})
	g.AddEdge(lineage.Edge{SourceNodeID: "a", SourceColumn: "c1", TargetNodeID: "b", TargetColumn: "c1"})
	g.AddEdge(lineage.Edge{SourceNodeID: "a", SourceColumn: "c2", TargetNodeID: "c", TargetColumn: "c1"})

	l := Compute(g, Options{})

	nb, _ := l.Node("b")
	nc, _ := l.Node("c")
	if nb.Y >= nc.Y {
		t.Errorf("insertion order not preserved in stack: b at %.1f, c at %.1f", nb.Y, nc.Y)
	}
	if got, want := nc.Top()-nb.Bottom(), VerticalGap; got != want {
		t.Errorf("stack gap = %.1f, want %.1f", got, want)
	}
}

func TestCompute_EmptyGraph(t *testing.T) {
	l := Compute(lineage.New(), Options{ViewportWidth: 640, ViewportHeight: 480})

	if got := len(l.Nodes()); got != 0 {
		t.Errorf("len(Nodes()) = %d, want 0", got)
	}
	if l.Width != 640 || l.Height != 480 {
		t.Errorf("extent = %.0fx%.0f, want 640x480", l.Width, l.Height)
	}
}

func TestCompute_ExtentClampedToViewport(t *testing.T) {
	g := buildGraph(t, []string{"a"}, nil)
	l := Compute(g, Options{ViewportWidth: 2000, ViewportHeight: 1500})

	if l.Width != 2000 || l.Height != 1500 {
		t.Errorf("extent = %.0fx%.0f, want 2000x1500", l.Width, l.Height)
	}
}

func TestCompute_ExtentCoversNodes(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c", "d", "e", "f"},
		[]lineage.Edge{edge("a", "b"), edge("b", "c"), edge("c", "d"), edge("d", "e"), edge("e", "f")})
	l := Compute(g, Options{ViewportWidth: 100, ViewportHeight: 100})

	for _, n := range l.Nodes() {
		if n.Right() > l.Width-Padding {
			t.Errorf("node %s right edge %.1f exceeds width %.1f", n.ID, n.Right(), l.Width)
		}
		if n.Bottom() > l.Height-Padding {
			t.Errorf("node %s bottom edge %.1f exceeds height %.1f", n.ID, n.Bottom(), l.Height)
		}
	}
}

func TestBoxHeight(t *testing.T) {
	n := &Node{Node: &lineage.Node{ID: "a", Columns: []lineage.Column{{Name: "x"}, {Name: "y"}}}}
	if got, want := n.BoxHeight(), HeaderHeight+2*ColumnRowHeight; got != want {
		t.Errorf("BoxHeight() = %.1f, want %.1f", got, want)
	}

	empty := &Node{Node: &lineage.Node{ID: "b"}}
	if got := empty.BoxHeight(); got != HeaderHeight {
		t.Errorf("BoxHeight() = %.1f, want %.1f", got, HeaderHeight)
	}
}

func TestApplyDrag_PinsNode(t *testing.T) {
	g := buildGraph(t, []string{"a", "b"}, []lineage.Edge{edge("a", "b")})
	l := Compute(g, Options{})

	n, _ := l.Node("a")
	x, y := n.X, n.Y

	if !l.ApplyDrag("a", 30, -12) {
		t.Fatal("ApplyDrag(a) = false, want true")
	}
	if n.X != x+30 || n.Y != y-12 {
		t.Errorf("position = (%.1f, %.1f), want (%.1f, %.1f)", n.X, n.Y, x+30, y-12)
	}
	if !n.Pinned {
		t.Error("Pinned = false, want true")
	}
}

func TestApplyDrag_Accumulates(t *testing.T) {
	g := buildGraph(t, []string{"a"}, nil)
	l := Compute(g, Options{})

	n, _ := l.Node("a")
	x, y := n.X, n.Y
	l.ApplyDrag("a", 5, 5)
	l.ApplyDrag("a", 5, 5)

	if n.X != x+10 || n.Y != y+10 {
		t.Errorf("position = (%.1f, %.1f), want (%.1f, %.1f)", n.X, n.Y, x+10, y+10)
	}
}

func TestApplyDrag_UnknownNodeIsNoOp(t *testing.T) {
	g := buildGraph(t, []string{"a"}, nil)
	l := Compute(g, Options{})

	if l.ApplyDrag("ghost", 10, 10) {
		t.Error("ApplyDrag(ghost) = true, want false")
	}
}

func TestRelayout_PreservesPins(t *testing.T) {
	g := buildGraph(t, []string{"a", "b"}, []lineage.Edge{edge("a", "b")})
	l := Compute(g, Options{})

	l.ApplyDrag("a", 75, 40)
	na, _ := l.Node("a")
	x, y := na.X, na.Y

	l.Relayout(Options{ViewportWidth: 900, ViewportHeight: 600})

	if na.X != x || na.Y != y {
		t.Errorf("pinned node moved to (%.1f, %.1f), want (%.1f, %.1f)", na.X, na.Y, x, y)
	}
	nb, _ := l.Node("b")
	if nb.Pinned {
		t.Error("undragged node reported pinned")
	}
}
