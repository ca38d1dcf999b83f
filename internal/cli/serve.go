package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lineascope/lineascope/internal/config"
	"github.com/lineascope/lineascope/internal/server"
	"github.com/lineascope/lineascope/pkg/cache"
	"github.com/lineascope/lineascope/pkg/pipeline"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the lineage HTTP API server",
		Long: `Run the lineage HTTP API server.

The server exposes layout and render endpoints plus document storage. Backends
for caching (file, redis) and document storage (file, mongo) are selected via
the config file or environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

// runServe wires the configured backends into a server and blocks until
// the context is cancelled.
func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.ListenAddr = addr
	}

	serverCache, err := newServerCache(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	st, err := c.newStoreFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close(context.Background())

	extractor, err := c.newExtractor(cfg)
	if err != nil {
		return fmt.Errorf("initialize extractor: %w", err)
	}
	if extractor == nil {
		c.Logger.Warn("No extraction service configured; SQL requests will be rejected")
	}

	runner := pipeline.NewRunner(serverCache, nil, c.Logger)
	defer runner.Close()

	srv := server.NewServer(server.Config{
		Addr:      cfg.Server.ListenAddr,
		Runner:    runner,
		Store:     st,
		Extractor: extractor,
		Theme:     cfg.Render.Theme,
		Logger:    c.Logger,
	})

	c.Logger.Infof("Listening on %s", cfg.Server.ListenAddr)
	return srv.Serve(ctx)
}

// newServerCache selects a cache backend from configuration.
func newServerCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
	case "none":
		return cache.NewNullCache(), nil
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	}
}
