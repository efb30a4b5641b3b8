package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/TheJakeYoon/local-llm/internal/config"
	"github.com/TheJakeYoon/local-llm/internal/http/middleware"
	"github.com/TheJakeYoon/local-llm/internal/observability"
)

// Server represents the HTTP server.
type Server struct {
	config      config.ServerConfig
	handler     *Handler
	middlewares middleware.Middleware
	srv         *http.Server
}

// NewServer creates a new HTTP server (DI constructor). The underlying
// http.Server is built here so Shutdown from another goroutine never races
// Start. No write timeout is set: a chat response is held open until the
// daemon answers, however long that takes.
func NewServer(
	cfg *config.ServerConfig,
	handler *Handler,
	middlewares middleware.Middleware,
) *Server {
	s := &Server{
		config:      *cfg,
		handler:     handler,
		middlewares: middlewares,
		srv:         nil,
	}

	s.srv = &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:     s.routes(),
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Second,
	}

	return s
}

// routes builds the route table wrapped in the middleware chain.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// The catch-all serves the embedded UI and the JSON 404 for everything
	// else.
	mux.HandleFunc("/health", s.handler.HandleHealth)
	mux.HandleFunc("/api/models", s.handler.HandleModels)
	mux.HandleFunc("/api/chat", s.handler.HandleChat)
	mux.HandleFunc("/", s.handler.HandleStatic)

	return s.middlewares(mux)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	ctx := context.Background()
	observability.FromContext(ctx).Info("starting HTTP server",
		zap.String("host", s.config.Host),
		zap.Int("port", s.config.Port),
	)

	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	observability.FromContext(ctx).Info("shutting down HTTP server")

	if s.srv == nil {
		return nil
	}

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
