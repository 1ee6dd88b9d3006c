// Package server implements the plotfield HTTP render service.
//
// The service exposes the same pipeline the CLI drives: a health endpoint,
// a discovery endpoint listing pieces and presets, and two render endpoints
// (GET for quick single-artifact fetches, POST for full Options control).
// Every request runs its own pipeline invocation; the shared Runner is safe
// for concurrent use.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/plotfield/plotfield/pkg/pipeline"
)

// Server routes render requests to a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a Server. The caller retains ownership of the runner and is
// responsible for closing it after the server stops.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	return &Server{runner: runner, logger: logger}
}

// Router assembles the chi router with all routes and middleware.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverPanics)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/pieces", s.handlePieces)
		r.Get("/render/{piece}", s.handleRenderGet)
		r.Post("/render", s.handleRenderPost)
	})
	return r
}

// ListenAndServe runs the service until ctx is cancelled, then shuts down
// gracefully, letting in-flight renders finish. A clean shutdown returns nil.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		<-errCh
		s.logger.Info("stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
