package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/BrewBlox/brewblox-mdns/internal/config"
	"github.com/BrewBlox/brewblox-mdns/internal/discovery"
	"github.com/BrewBlox/brewblox-mdns/internal/logging"
)

const shutdownGrace = 5 * time.Second

// Server exposes the discovery engine over HTTP.
type Server struct {
	cfg        *config.Config
	discoverer *discovery.Discoverer
	httpServer *http.Server
}

// New creates a Server around an existing discoverer.
func New(cfg *config.Config, discoverer *discovery.Discoverer) *Server {
	s := &Server{
		cfg:        cfg,
		discoverer: discoverer,
	}
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: s.Handler(),
	}
	return s
}

// Start runs the server and blocks until a shutdown signal arrives or
// the listener fails.
func (s *Server) Start() error {
	logging.Info("Starting brewblox-mdns API",
		zap.String("addr", s.httpServer.Addr),
		zap.String("service_type", s.cfg.ServiceType),
		zap.Duration("default_timeout", s.cfg.Timeout()),
	)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return fmt.Errorf("listener failed: %w", err)
	}
}

// Shutdown stops accepting requests and waits briefly for in-flight
// discovery calls to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownGrace)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		// Best effort; pending discovery sessions are cancelled with
		// their request contexts either way.
		logging.Warn("Server shutdown incomplete", zap.Error(err))
		return err
	}
	logging.Info("Server stopped")
	return nil
}
