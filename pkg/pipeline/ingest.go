package pipeline

import (
	"context"
	"fmt"

	"github.com/lineascope/lineascope/pkg/extract"
	"github.com/lineascope/lineascope/pkg/lineage"
)

// Ingest obtains a lineage graph from the configured source: SQL is sent
// to the extraction service, graph JSON is decoded directly with the
// lenient reader.
func Ingest(ctx context.Context, opts Options) (*lineage.Graph, error) {
	if err := opts.ValidateForIngest(); err != nil {
		return nil, err
	}

	if opts.SQL != "" {
		g, err := opts.Extractor.Extract(ctx, extract.Request{
			SQL:     opts.SQL,
			Dialect: opts.Dialect,
			Model:   opts.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("extract lineage: %w", err)
		}
		return g, nil
	}

	g, err := lineage.IngestBytes(opts.GraphJSON)
	if err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	return g, nil
}
