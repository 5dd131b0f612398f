// Package api declares operational HTTP routes and shared middleware.
package api

import (
	"context"
	"net/http"
)

// Server wires the operational HTTP routes.
type Server struct {
	healthHandler *HealthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer() *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
}
