package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"ffupdater/internal/metrics"
	"ffupdater/internal/scheduler"
)

// StateFunc reports the current update check registration.
type StateFunc func() scheduler.State

// HTTPServer serves the daemon's health, status and metrics endpoints.
type HTTPServer struct {
	mux     *http.ServeMux
	version string
	state   StateFunc
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewHTTPServer creates a new HTTP server instance
func NewHTTPServer(version string, state StateFunc, m *metrics.Metrics, log zerolog.Logger) *HTTPServer {
	s := &HTTPServer{
		mux:     http.NewServeMux(),
		version: version,
		state:   state,
		metrics: m,
		log:     log,
	}

	s.registerRoutes()

	return s
}

func (s *HTTPServer) registerRoutes() {
	s.mux.HandleFunc("/health", s.loggingMiddleware(s.handleHealth))
	s.mux.HandleFunc("/status", s.loggingMiddleware(s.handleStatus))
	s.mux.Handle("/metrics", s.metrics.Handler())
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *HTTPServer) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("metrics server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.log.Info().Msg("metrics server stopped")
		return nil
	}
}
