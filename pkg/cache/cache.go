// Package cache provides content-addressed caching for the lineage pipeline.
//
// The pipeline caches three artifact classes, each keyed by the content hash
// of its input:
//   - graphs, keyed by the SQL source that produced them
//   - layouts, keyed by the graph they were computed from
//   - rendered artifacts (SVG, DOT), keyed by the layout they drew
//
// Backends share the [Cache] interface: a file cache for local runs, a
// Redis cache for server deployments, and a null cache for tests and
// cache-off mode. Key construction goes through a [Keyer] so deployments
// can layer prefixes on top (see [ScopedKeyer]).
package cache

import (
	"context"
	"time"
)

// Cache lifetimes per artifact class. Graphs depend on the extraction
// service, so they expire; layouts and artifacts are pure functions of
// their inputs and get longer lifetimes.
const (
	TTLGraph    = 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key-value store with per-entry TTL.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and fresh; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// GraphKeyOpts are the extraction parameters that affect graph identity.
// Two extractions of the same SQL with different options must not share a
// cache entry.
type GraphKeyOpts struct {
	Dialect string `json:"dialect"`
	Model   string `json:"model"`
}

// LayoutKeyOpts are the layout parameters that affect node placement.
type LayoutKeyOpts struct {
	ViewportWidth  float64 `json:"viewport_width"`
	ViewportHeight float64 `json:"viewport_height"`
}

// ArtifactKeyOpts are the rendering parameters that affect artifact bytes.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Theme  string `json:"theme"`
}

// Keyer builds cache keys for the pipeline's artifact classes.
type Keyer interface {
	// HTTPKey generates a key for HTTP response caching.
	HTTPKey(namespace, key string) string

	// GraphKey generates a key for an extracted graph, from the content
	// hash of the SQL source and the extraction options.
	GraphKey(sqlHash string, opts GraphKeyOpts) string

	// LayoutKey generates a key for a computed layout, from the content
	// hash of the graph and the layout options.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact, from the
	// content hash of the layout and the render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme: a class prefix plus a SHA-256
// hash over the identifying inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// GraphKey generates a key for an extracted graph.
func (k *DefaultKeyer) GraphKey(sqlHash string, opts GraphKeyOpts) string {
	return hashKey("graph", sqlHash, opts)
}

// LayoutKey generates a key for a computed layout.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
