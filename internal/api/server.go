// Package api provides the HTTP API server for logsight.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	apierrors "github.com/narvanalabs/logsight/internal/api/errors"
	"github.com/narvanalabs/logsight/internal/api/handlers"
	"github.com/narvanalabs/logsight/internal/api/health"
	"github.com/narvanalabs/logsight/internal/api/middleware"
	"github.com/narvanalabs/logsight/internal/store"
	"github.com/narvanalabs/logsight/pkg/config"
)

// Version is the current version of the API server.
// This should be set at build time using ldflags.
var Version = "dev"

// Server represents the HTTP API server.
type Server struct {
	router        chi.Router
	httpServer    *http.Server
	store         store.Store
	analyzer      handlers.Analyzer
	config        *config.Config
	logger        *slog.Logger
	healthChecker *health.Checker
}

// NewServer creates a new API server with the given dependencies.
func NewServer(cfg *config.Config, st store.Store, analyzer handlers.Analyzer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		store:    st,
		analyzer: analyzer,
		config:   cfg,
		logger:   logger,
	}

	s.healthChecker = health.NewChecker(st, Version, cfg.AI.APIKey != "")

	s.setupRouter()
	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AI.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// setupRouter configures the router with middleware and routes.
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(middleware.Recovery(s.logger))
	r.Use(middleware.CORS(s.config.CORSAllowedOrigins))
	// The collaborator timeout bounds analysis; leave headroom for the response.
	r.Use(chimiddleware.Timeout(s.config.AI.Timeout + 15*time.Second))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apierrors.Write(w, http.StatusNotFound, apierrors.MessageNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apierrors.Write(w, http.StatusMethodNotAllowed, apierrors.MessageMethod)
	})

	r.Get("/health", s.healthChecker.Handler())

	logHandler := handlers.NewLogHandler(s.store, s.logger)
	sourceHandler := handlers.NewSourceHandler(s.store, s.logger)
	analyzeHandler := handlers.NewAnalyzeHandler(s.analyzer, s.logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/logs", logHandler.List)
		r.Get("/logs/", logHandler.List)
		r.Get("/sources", sourceHandler.List)
		r.Get("/sources/", sourceHandler.List)
		r.Get("/ai/analyze", analyzeHandler.Analyze)
	})

	s.router = r
}

// Start serves until ctx is cancelled, Shutdown is called, or the listener
// fails. It returns nil after a graceful stop.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting API server", "addr", s.httpServer.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server, waiting for in-flight
// requests up to the configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// Router returns the chi router for testing purposes.
func (s *Server) Router() chi.Router {
	return s.router
}
