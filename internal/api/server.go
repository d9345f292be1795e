// Package api exposes lookups, comments, health and metrics over HTTP.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds the listener settings.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves the HTTP API.
type Server struct {
	handler *Handler
	server  *http.Server
}

// NewServer creates a new API server.
func NewServer(h *Handler, cfg Config) *Server {
	return &Server{
		handler: h,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      NewRouter(h),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// NewRouter wires routes and middleware.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(SecurityHeaders)
	r.Use(h.LoggingMiddleware)
	r.Use(h.RecoverMiddleware)

	r.Post("/api/lookup", h.HandleLookup)
	r.Get("/api/comments", h.HandleListComments)
	r.Post("/api/comments", h.HandlePostComment)

	r.Get("/health", h.HandleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	slog.Info("HTTP server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
