package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/lineascope/lineascope/pkg/cache"
	"github.com/lineascope/lineascope/pkg/extract"
	"github.com/lineascope/lineascope/pkg/lineage"
)

func testGraph(t *testing.T) *lineage.Graph {
	t.Helper()
	g := lineage.New()
	for _, n := range []lineage.Node{
		{ID: "orders", Kind: lineage.KindTable, Columns: []lineage.Column{{Name: "id"}, {Name: "total"}}},
		{ID: "revenue", Kind: lineage.KindModel, Columns: []lineage.Column{{Name: "amount"}}},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode() error = %v", err)
		}
	}
	g.AddEdge(lineage.Edge{
		SourceNodeID: "orders", SourceColumn: "total",
		TargetNodeID: "revenue", TargetColumn: "amount",
	})
	return g
}

func testGraphJSON(t *testing.T) []byte {
	t.Helper()
	data, err := lineage.MarshalGraph(testGraph(t))
	if err != nil {
		t.Fatalf("MarshalGraph() error = %v", err)
	}
	return data
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"dot", false},
		{"json", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateTheme(t *testing.T) {
	tests := []struct {
		theme   string
		wantErr bool
	}{
		{"light", false},
		{"dark", false},
		{"invalid", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateTheme(tt.theme)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateTheme(%q) error = %v, wantErr %v", tt.theme, err, tt.wantErr)
		}
	}
}

func TestOptions_ValidateForIngest(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"neither source", Options{}, true},
		{"both sources", Options{SQL: "SELECT 1", GraphJSON: []byte("{}"), Extractor: &extract.Static{}}, true},
		{"sql without extractor", Options{SQL: "SELECT 1"}, true},
		{"sql with extractor", Options{SQL: "SELECT 1", Extractor: &extract.Static{Graph: lineage.New()}}, false},
		{"graph json", Options{GraphJSON: []byte(`{"nodes":[]}`)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForIngest()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForIngest() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptions_Defaults(t *testing.T) {
	opts := Options{GraphJSON: testGraphJSON(t)}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("viewport = %gx%g, want %gx%g", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Theme != ThemeLight {
		t.Errorf("Theme = %q, want light", opts.Theme)
	}
}

func TestExecute_FromGraphJSON(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{
		GraphJSON: testGraphJSON(t),
		Formats:   []string{FormatSVG, FormatDOT, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Stats.NodeCount != 2 {
		t.Errorf("NodeCount = %d, want 2", result.Stats.NodeCount)
	}
	if result.GraphHash == "" {
		t.Error("GraphHash is empty")
	}
	if len(result.Artifacts) != 3 {
		t.Fatalf("Artifacts = %d formats, want 3", len(result.Artifacts))
	}
	if !strings.Contains(string(result.Artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact missing <svg element")
	}
	if !strings.Contains(string(result.Artifacts[FormatDOT]), "digraph lineage") {
		t.Error("dot artifact missing digraph header")
	}

	snap, err := UnmarshalLayout(result.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("UnmarshalLayout() error = %v", err)
	}
	if len(snap.Nodes) != 2 || len(snap.Edges) != 1 {
		t.Errorf("snapshot has %d nodes, %d edges, want 2, 1", len(snap.Nodes), len(snap.Edges))
	}
}

func TestExecute_FromSQL(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{
		SQL:       "SELECT SUM(total) AS amount FROM orders",
		Extractor: &extract.Static{Graph: testGraph(t)},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Stats.EdgeCount != 1 {
		t.Errorf("EdgeCount = %d, want 1", result.Stats.EdgeCount)
	}
}

func TestExecute_InvalidOptions(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	if _, err := runner.Execute(context.Background(), Options{}); err == nil {
		t.Error("Execute() with no source should fail")
	}
	if _, err := runner.Execute(context.Background(), Options{
		GraphJSON: testGraphJSON(t),
		Formats:   []string{"png"},
	}); err == nil {
		t.Error("Execute() with unsupported format should fail")
	}
}

func TestIngest_CachesExtraction(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	runner := NewRunner(c, nil, nil)
	defer runner.Close()

	opts := Options{
		SQL:       "SELECT 1",
		Extractor: &extract.Static{Graph: testGraph(t)},
	}

	if _, hit, err := runner.IngestWithCacheInfo(ctx, opts); err != nil || hit {
		t.Fatalf("first ingest: hit = %v, err = %v, want miss", hit, err)
	}
	if _, hit, err := runner.IngestWithCacheInfo(ctx, opts); err != nil || !hit {
		t.Fatalf("second ingest: hit = %v, err = %v, want hit", hit, err)
	}

	opts.Refresh = true
	if _, hit, err := runner.IngestWithCacheInfo(ctx, opts); err != nil || hit {
		t.Fatalf("refresh ingest: hit = %v, err = %v, want miss", hit, err)
	}
}

func TestRender_CachesArtifacts(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	runner := NewRunner(c, nil, nil)
	defer runner.Close()

	opts := Options{GraphJSON: testGraphJSON(t)}
	g, err := runner.Ingest(ctx, opts)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	l := runner.ComputeLayout(ctx, g, opts)

	if _, hit, err := runner.RenderWithCacheInfo(ctx, l, opts); err != nil || hit {
		t.Fatalf("first render: hit = %v, err = %v, want miss", hit, err)
	}
	if _, hit, err := runner.RenderWithCacheInfo(ctx, l, opts); err != nil || !hit {
		t.Fatalf("second render: hit = %v, err = %v, want hit", hit, err)
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	opts := Options{GraphJSON: testGraphJSON(t)}
	g, err := runner.Ingest(context.Background(), opts)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	l := runner.ComputeLayout(context.Background(), g, opts)

	snap := Snapshot(l)
	data, err := MarshalLayout(snap)
	if err != nil {
		t.Fatalf("MarshalLayout() error = %v", err)
	}
	got, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout() error = %v", err)
	}
	if len(got.Nodes) != len(snap.Nodes) {
		t.Errorf("round trip lost nodes: got %d, want %d", len(got.Nodes), len(snap.Nodes))
	}
	for _, e := range got.Edges {
		if !strings.HasPrefix(e.Path, "M ") {
			t.Errorf("edge path %q does not start with a move command", e.Path)
		}
	}
}
