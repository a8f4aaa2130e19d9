package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/tequmsa/ankhaten/internal/ctxlog"
	"github.com/tequmsa/ankhaten/internal/improve"
	"github.com/tequmsa/ankhaten/internal/registry"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// Server serves the REST API over a registry and its improvement loop.
type Server struct {
	reg  *registry.Registry
	loop *improve.Loop

	httpServer *http.Server
}

// NewServer creates an API server. The loop may be nil, in which case the
// improve endpoint reports the feature as unavailable.
func NewServer(reg *registry.Registry, loop *improve.Loop) *Server {
	return &Server{reg: reg, loop: loop}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/components", s.handleComponents)
	mux.HandleFunc("POST /v1/components/{uid}/materialize", s.handleMaterialize)
	mux.HandleFunc("POST /v1/improve", s.handleImprove)
	return mux
}

// Start runs the server in a goroutine and returns immediately.
func (s *Server) Start(ctx context.Context, port int) {
	logger := ctxlog.FromContext(ctx)

	addr := fmt.Sprintf(":%d", port)
	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		logger.Info("API server starting", "address", fmt.Sprintf("http://localhost%s", addr))
		// ListenAndServe returns ErrServerClosed on graceful shutdown; only
		// other errors are real failures.
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("API server failed unexpectedly", "error", err)
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if s.httpServer == nil {
		logger.Debug("API server was not running.")
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("Shutting down API server...")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("API server shutdown failed", "error", err)
		return err
	}
	logger.Debug("API server shut down gracefully.")
	return nil
}
