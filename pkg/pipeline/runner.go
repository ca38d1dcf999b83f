package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lineascope/lineascope/pkg/cache"
	"github.com/lineascope/lineascope/pkg/lineage"
	"github.com/lineascope/lineascope/pkg/lineage/layout"
	"github.com/lineascope/lineascope/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete ingest → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Ingest
	ingestStart := time.Now()
	observability.Pipeline().OnIngestStart(ctx, opts.Source())
	g, ingestHit, err := r.IngestWithCacheInfo(ctx, opts)
	result.Stats.IngestTime = time.Since(ingestStart)
	if err != nil {
		observability.Pipeline().OnIngestComplete(ctx, opts.Source(), 0, 0, result.Stats.IngestTime, err)
		return nil, fmt.Errorf("ingest: %w", err)
	}
	observability.Pipeline().OnIngestComplete(ctx, opts.Source(), g.NodeCount(), g.EdgeCount(), result.Stats.IngestTime, nil)

	result.Graph = g
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.CacheInfo.IngestHit = ingestHit

	if graphData, err := lineage.MarshalGraph(g); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	r.Logger.Info("ingested lineage graph",
		"source", opts.Source(),
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.IngestTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, g.NodeCount())
	l := r.ComputeLayout(ctx, g, opts)
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	observability.Pipeline().OnLayoutComplete(ctx, depthCount(l), result.Stats.LayoutTime, nil)

	r.Logger.Info("computed layout",
		"depths", depthCount(l),
		"width", l.Width,
		"height", l.Height,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	if err != nil {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
		return nil, fmt.Errorf("render: %w", err)
	}
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, nil)

	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// IngestWithCacheInfo obtains a graph with caching and returns cache hit
// info. Only SQL extraction is cached; decoding graph JSON is cheaper
// than the cache round trip.
func (r *Runner) IngestWithCacheInfo(ctx context.Context, opts Options) (*lineage.Graph, bool, error) {
	if err := opts.ValidateForIngest(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	if opts.SQL == "" {
		g, err := Ingest(ctx, opts)
		return g, false, err
	}

	cacheKey := r.Keyer.GraphKey(cache.Hash([]byte(opts.SQL)), opts.GraphKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if g, err := lineage.IngestBytes(data); err == nil {
				return g, true, nil
			}
		}
	}

	g, err := Ingest(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := lineage.MarshalGraph(g); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLGraph)
	}

	return g, false, nil
}

// Ingest is a convenience wrapper that discards the cache hit info.
func (r *Runner) Ingest(ctx context.Context, opts Options) (*lineage.Graph, error) {
	g, _, err := r.IngestWithCacheInfo(ctx, opts)
	return g, err
}

// ComputeLayout computes node positions for a graph. Layout is a pure
// function of the graph and viewport, so there is nothing to cache; the
// snapshot is still written through so frontends can fetch it by key.
func (r *Runner) ComputeLayout(ctx context.Context, g *lineage.Graph, opts Options) *layout.Layout {
	opts.SetLayoutDefaults()

	l := layout.Compute(g, layout.Options{
		ViewportWidth:  opts.Width,
		ViewportHeight: opts.Height,
	})

	if graphData, err := lineage.MarshalGraph(g); err == nil {
		if data, err := MarshalLayout(Snapshot(l)); err == nil {
			key := r.Keyer.LayoutKey(cache.Hash(graphData), opts.LayoutKeyOpts())
			_ = r.Cache.Set(ctx, key, data, cache.TTLLayout)
		}
	}
	return l
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l *layout.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Selection state is not part of the artifact key, so selected
	// renders bypass the cache entirely.
	if opts.Selection != nil {
		rendered, err := Render(l, opts)
		return rendered, false, err
	}

	layoutData, err := MarshalLayout(Snapshot(l))
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	allCached := true
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := Render(l, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l *layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// depthCount returns the number of distinct depth columns in a layout.
func depthCount(l *layout.Layout) int {
	seen := make(map[int]struct{})
	for _, n := range l.Nodes() {
		seen[n.Depth] = struct{}{}
	}
	return len(seen)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
