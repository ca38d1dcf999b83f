// Package cli implements the lineascope command-line interface.
//
// This package provides commands for turning SQL or pre-extracted lineage
// graphs into laid-out visualizations, browsing them interactively in the
// terminal, serving the HTTP API, and managing saved documents and the
// local cache. The CLI is built using cobra and supports verbose logging
// via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute node positions for a lineage graph
//   - render: Generate SVG, DOT, or JSON layout output
//   - view: Browse a lineage graph interactively in the terminal
//   - serve: Run the HTTP API server
//   - docs: Manage saved lineage documents
//   - cache: Manage the local cache
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lineascope/lineascope/internal/config"
	"github.com/lineascope/lineascope/pkg/buildinfo"
	"github.com/lineascope/lineascope/pkg/cache"
	"github.com/lineascope/lineascope/pkg/extract"
	"github.com/lineascope/lineascope/pkg/pipeline"
	"github.com/lineascope/lineascope/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "lineascope"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "lineascope",
		Short:        "Lineascope visualizes column-level SQL lineage",
		Long:         `Lineascope renders column-level SQL lineage graphs as layered diagrams, making it easier to trace how data flows from source tables into models.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: ~/.config/lineascope/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.docsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file named by --config, or the default path.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.ConfigPath)
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newExtractor builds an extraction client from configuration.
// Returns nil when no extraction service is configured; commands that
// only consume graph JSON work without one.
func (c *CLI) newExtractor(cfg *config.Config) (extract.Extractor, error) {
	if cfg.Extract.URL == "" {
		return nil, nil
	}
	opts := []extract.ClientOption{}
	if cfg.Extract.APIKey != "" {
		opts = append(opts, extract.WithAPIKey(cfg.Extract.APIKey))
	}
	return extract.NewClient(cfg.Extract.URL, opts...)
}

// newStoreFromConfig builds a document store from configuration.
func (c *CLI) newStoreFromConfig(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoOptions{
			URI:        cfg.Store.MongoURI,
			Database:   cfg.Store.MongoDatabase,
			Collection: cfg.Store.MongoCollection,
		})
	default:
		return store.NewFileStore(cfg.Store.Dir)
	}
}

// cacheDir returns the cache directory using XDG standard (~/.cache/lineascope/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
