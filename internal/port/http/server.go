package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/immodirect7-wq/immodirect/internal/app/config"
	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
)

type Server struct {
	log             logger.Logger
	httpServer      *http.Server
	timeoutGraceful time.Duration
}

func NewServer(log logger.Logger, cfg config.HTTPServerConfig, handler http.Handler) *Server {
	return &Server{
		log: log,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		timeoutGraceful: cfg.TimeoutGraceful,
	}
}

// Start blocks until the listener fails or the server is stopped.
func (s *Server) Start() error {
	s.log.Infof("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Stop drains in-flight requests before shutting the listener down.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Attempting graceful shutdown of HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, s.timeoutGraceful)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.log.Info("HTTP server shut down gracefully")
	return nil
}
