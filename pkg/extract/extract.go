package extract

import (
	"context"
	"errors"

	"github.com/lineascope/lineascope/pkg/lineage"
)

var (
	// ErrNotFound is returned when the service endpoint does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Request describes one extraction call.
type Request struct {
	// SQL is the script to derive lineage from.
	SQL string `json:"sql"`

	// Dialect hints the SQL dialect (postgres, snowflake, bigquery, ...).
	// Empty lets the service guess.
	Dialect string `json:"dialect,omitempty"`

	// Model selects the extraction model the service should use.
	Model string `json:"model,omitempty"`
}

// Extractor turns SQL into a lineage graph.
type Extractor interface {
	Extract(ctx context.Context, req Request) (*lineage.Graph, error)
}

// Static is an Extractor that always returns a fixed graph. Used in tests
// and for offline rendering of pre-extracted graphs.
type Static struct {
	Graph *lineage.Graph
	Err   error
}

// Extract returns the fixed graph or error.
func (s *Static) Extract(ctx context.Context, req Request) (*lineage.Graph, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Graph, nil
}

// Ensure Static implements Extractor.
var _ Extractor = (*Static)(nil)
