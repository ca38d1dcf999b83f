// Package pipeline provides the core visualization pipeline for Lineascope.
//
// This package implements the complete ingest → layout → render pipeline that
// can be used by CLI, API, and server components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Ingest: Obtain a column-level lineage graph, either by sending SQL to
//     an extraction service or by decoding graph JSON directly
//  2. Layout: Compute pixel positions for every node box
//  3. Render: Generate output in various formats (SVG, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    SQL:       "SELECT id, total FROM orders",
//	    Dialect:   "postgres",
//	    Formats:   []string{"svg"},
//	    Extractor: client,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lineascope/lineascope/pkg/cache"
	"github.com/lineascope/lineascope/pkg/extract"
	"github.com/lineascope/lineascope/pkg/lineage"
	"github.com/lineascope/lineascope/pkg/lineage/layout"
)

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = layout.DefaultViewportWidth

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = layout.DefaultViewportHeight

	// DefaultTheme is the default visual theme.
	DefaultTheme = ThemeLight
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// Theme constants for visual themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidThemes is the set of supported visual themes.
var ValidThemes = map[string]bool{
	ThemeLight: true,
	ThemeDark:  true,
}

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Ingest options. Exactly one of SQL or GraphJSON must be set:
	// SQL goes through the extraction service, GraphJSON is decoded
	// directly.
	SQL       string `json:"sql,omitempty"`
	Dialect   string `json:"dialect,omitempty"`
	Model     string `json:"model,omitempty"`
	GraphJSON []byte `json:"graph,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`

	// Layout options
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Theme   string   `json:"theme,omitempty"`

	// Runtime options (not serialized)
	Logger    *log.Logger       `json:"-"`
	Extractor extract.Extractor `json:"-"`
	Selection *layout.Selection `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the ingested lineage graph.
	Graph *lineage.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Layout holds the computed node positions.
	Layout *layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	IngestTime time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	IngestHit bool // Whether the graph came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTheme checks that a theme is valid.
func ValidateTheme(theme string) error {
	if !ValidThemes[theme] {
		return fmt.Errorf("invalid theme: %q (must be one of: light, dark)", theme)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForIngest(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateTheme(o.Theme); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForIngest checks required fields for the ingest stage.
func (o *Options) ValidateForIngest() error {
	if o.SQL == "" && len(o.GraphJSON) == 0 {
		return fmt.Errorf("sql or graph is required")
	}
	if o.SQL != "" && len(o.GraphJSON) > 0 {
		return fmt.Errorf("sql and graph are mutually exclusive")
	}
	if o.SQL != "" && o.Extractor == nil {
		return fmt.Errorf("an extractor is required for sql input")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateTheme(o.Theme)
}

// Source names the ingest source for logging and instrumentation.
func (o *Options) Source() string {
	if o.SQL != "" {
		return "sql"
	}
	return "json"
}

// GraphKeyOpts returns cache key options for the ingest stage.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Dialect: o.Dialect,
		Model:   o.Model,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		ViewportWidth:  o.Width,
		ViewportHeight: o.Height,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Theme:  o.Theme,
	}
}
