package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/lineascope/lineascope/pkg/lineage"
)

func writeJunk(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatalf("write junk file: %v", err)
	}
}

func testGraph(t *testing.T) *lineage.Graph {
	t.Helper()
	g := lineage.New()
	if err := g.AddNode(lineage.Node{
		ID:      "orders",
		Kind:    lineage.KindTable,
		Columns: []lineage.Column{{Name: "id"}, {Name: "total"}},
	}); err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}
	if err := g.AddNode(lineage.Node{
		ID:      "revenue",
		Kind:    lineage.KindModel,
		Columns: []lineage.Column{{Name: "amount"}},
	}); err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}
	g.AddEdge(lineage.Edge{
		SourceNodeID: "orders", SourceColumn: "total",
		TargetNodeID: "revenue", TargetColumn: "amount",
	})
	return g
}

func TestNewDocument(t *testing.T) {
	doc, err := NewDocument("monthly revenue", "SELECT SUM(total) FROM orders", testGraph(t))
	if err != nil {
		t.Fatalf("NewDocument() error = %v", err)
	}
	if doc.ID == "" {
		t.Error("NewDocument() assigned empty ID")
	}
	if doc.CreatedAt.IsZero() || doc.UpdatedAt.IsZero() {
		t.Error("NewDocument() left timestamps unset")
	}

	g, err := doc.DecodeGraph()
	if err != nil {
		t.Fatalf("DecodeGraph() error = %v", err)
	}
	if g.NodeCount() != 2 {
		t.Errorf("DecodeGraph() node count = %d, want 2", g.NodeCount())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("DecodeGraph() edge count = %d, want 1", g.EdgeCount())
	}
}

func TestDocument_SetGraph(t *testing.T) {
	doc, err := NewDocument("doc", "", testGraph(t))
	if err != nil {
		t.Fatalf("NewDocument() error = %v", err)
	}
	before := doc.UpdatedAt

	g := lineage.New()
	if err := g.AddNode(lineage.Node{ID: "only"}); err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}
	time.Sleep(time.Millisecond)
	if err := doc.SetGraph(g); err != nil {
		t.Fatalf("SetGraph() error = %v", err)
	}
	if !doc.UpdatedAt.After(before) {
		t.Error("SetGraph() did not advance UpdatedAt")
	}
	decoded, err := doc.DecodeGraph()
	if err != nil {
		t.Fatalf("DecodeGraph() error = %v", err)
	}
	if decoded.NodeCount() != 1 {
		t.Errorf("DecodeGraph() node count = %d, want 1", decoded.NodeCount())
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	doc, err := NewDocument("round trip", "SELECT 1", testGraph(t))
	if err != nil {
		t.Fatalf("NewDocument() error = %v", err)
	}
	if err := fs.Put(ctx, doc); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := fs.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != doc.Name {
		t.Errorf("Get() name = %q, want %q", got.Name, doc.Name)
	}
	if got.SQL != doc.SQL {
		t.Errorf("Get() sql = %q, want %q", got.SQL, doc.SQL)
	}
	g, err := got.DecodeGraph()
	if err != nil {
		t.Fatalf("DecodeGraph() error = %v", err)
	}
	if g.NodeCount() != 2 {
		t.Errorf("round-tripped node count = %d, want 2", g.NodeCount())
	}
}

func TestFileStore_GetMissing(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	_, err = fs.Get(context.Background(), "no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestFileStore_Delete(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	doc, err := NewDocument("to delete", "", testGraph(t))
	if err != nil {
		t.Fatalf("NewDocument() error = %v", err)
	}
	if err := fs.Put(ctx, doc); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := fs.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := fs.Get(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := fs.Delete(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() of missing doc error = %v, want ErrNotFound", err)
	}
}

func TestFileStore_ListOrdersByUpdatedAt(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	older, err := NewDocument("older", "", testGraph(t))
	if err != nil {
		t.Fatalf("NewDocument() error = %v", err)
	}
	older.UpdatedAt = time.Now().Add(-time.Hour)
	newer, err := NewDocument("newer", "", testGraph(t))
	if err != nil {
		t.Fatalf("NewDocument() error = %v", err)
	}
	if err := fs.Put(ctx, older); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := fs.Put(ctx, newer); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	docs, err := fs.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("List() returned %d documents, want 2", len(docs))
	}
	if docs[0].Name != "newer" || docs[1].Name != "older" {
		t.Errorf("List() order = [%q, %q], want [newer, older]", docs[0].Name, docs[1].Name)
	}
}

func TestFileStore_ListSkipsUnparsableFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	doc, err := NewDocument("valid", "", testGraph(t))
	if err != nil {
		t.Fatalf("NewDocument() error = %v", err)
	}
	if err := fs.Put(ctx, doc); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	writeJunk(t, fs.documentPath("junk"))

	docs, err := fs.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("List() returned %d documents, want 1", len(docs))
	}
}

func TestNewMongoStore_RequiresURI(t *testing.T) {
	if _, err := NewMongoStore(context.Background(), MongoOptions{}); err == nil {
		t.Error("NewMongoStore() with empty URI should fail")
	}
}
