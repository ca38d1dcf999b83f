// Package server exposes the lineage pipeline and document store over a
// JSON HTTP API.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/lineascope/lineascope/pkg/extract"
	"github.com/lineascope/lineascope/pkg/pipeline"
	"github.com/lineascope/lineascope/pkg/store"
)

// Config holds configuration for the API server.
type Config struct {
	Addr      string
	Runner    *pipeline.Runner
	Store     store.Store
	Extractor extract.Extractor
	Theme     string
	Logger    *log.Logger
}

// Server is the Lineascope API server.
type Server struct {
	addr      string
	runner    *pipeline.Runner
	store     store.Store
	extractor extract.Extractor
	theme     string
	logger    *log.Logger
}

// NewServer creates an API server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	runner := cfg.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	return &Server{
		addr:      cfg.Addr,
		runner:    runner,
		store:     cfg.Store,
		extractor: cfg.Extractor,
		theme:     cfg.Theme,
		logger:    logger,
	}
}

// Routes builds the HTTP handler tree.
func (s *Server) Routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Post("/layout", s.handleLayout)
		r.Post("/render/{format}", s.handleRender)

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", s.handleListDocuments)
			r.Post("/", s.handleCreateDocument)
			r.Get("/{id}", s.handleGetDocument)
			r.Delete("/{id}", s.handleDeleteDocument)
			r.Get("/{id}/layout", s.handleDocumentLayout)
			r.Get("/{id}/render/{format}", s.handleDocumentRender)
		})
	})

	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting API server", "addr", s.addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Routes(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
