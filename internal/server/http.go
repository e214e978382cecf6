// Package server wraps the standard http.Server with the lifecycle the kvd
// daemon needs: timeouts from configuration and a graceful shutdown hook.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MKhiriev/salon-desk/internal/config"
	"github.com/MKhiriev/salon-desk/internal/logger"
)

type HTTPServer struct {
	server *http.Server
	logger *logger.Logger
}

// NewHTTPServer constructs the kvd HTTP server around the given handler.
func NewHTTPServer(cfg config.Server, handler http.Handler, log *logger.Logger) *HTTPServer {
	return &HTTPServer{
		server: &http.Server{
			Addr:              cfg.Address,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       cfg.RequestTimeout,
			WriteTimeout:      cfg.RequestTimeout,
		},
		logger: log,
	}
}

// Run starts serving and blocks until the listener closes. A shutdown-driven
// close is not an error.
func (s *HTTPServer) Run() error {
	s.logger.Info().Str("address", s.server.Addr).Msg("http server listening")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the listener.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("http server shutting down")
	return s.server.Shutdown(ctx)
}
