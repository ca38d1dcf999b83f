// Package store persists named lineage documents.
//
// A document bundles the SQL source, the extracted graph, and bookkeeping
// metadata under a stable UUID, so users can save a visualization and
// return to it later. Two backends implement the [Store] interface:
//   - file: JSON files in a config directory, for CLI use
//   - mongo: a MongoDB collection, for server deployments
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lineascope/lineascope/pkg/lineage"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Document is a saved lineage visualization.
type Document struct {
	ID        string          `json:"id" bson:"_id"`
	Name      string          `json:"name" bson:"name"`
	SQL       string          `json:"sql,omitempty" bson:"sql,omitempty"`
	Graph     json.RawMessage `json:"graph" bson:"graph"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
}

// NewDocument creates a document for the given graph, assigning a fresh
// UUID and timestamps.
func NewDocument(name, sql string, g *lineage.Graph) (*Document, error) {
	data, err := lineage.MarshalGraph(g)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Document{
		ID:        uuid.NewString(),
		Name:      name,
		SQL:       sql,
		Graph:     data,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// DecodeGraph decodes the stored graph. Documents are written by this
// package, so the strict reader applies.
func (d *Document) DecodeGraph() (*lineage.Graph, error) {
	return lineage.ReadGraph(bytes.NewReader(d.Graph))
}

// SetGraph replaces the stored graph and bumps UpdatedAt.
func (d *Document) SetGraph(g *lineage.Graph) error {
	data, err := lineage.MarshalGraph(g)
	if err != nil {
		return err
	}
	d.Graph = data
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// Store is the interface for document storage backends.
type Store interface {
	// Get retrieves a document by ID. Returns ErrNotFound if it does
	// not exist.
	Get(ctx context.Context, id string) (*Document, error)

	// Put stores a document, overwriting any existing one with the
	// same ID.
	Put(ctx context.Context, doc *Document) error

	// Delete removes a document. Deleting a missing document returns
	// ErrNotFound.
	Delete(ctx context.Context, id string) error

	// List returns all documents, most recently updated first.
	List(ctx context.Context) ([]*Document, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
