// Package server exposes the action filter over HTTP: a filter endpoint
// that runs batches through the pipeline, a liveness probe, and a config
// reload trigger. The server reads per-request settings (auth token, body
// cap, filter windows) from the config store's current snapshot, so most
// config changes apply live; the listen address requires a restart.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/JohnBasrai/aws-lambda-action-filter/internal/config"
	"github.com/JohnBasrai/aws-lambda-action-filter/internal/logger"
	"github.com/JohnBasrai/aws-lambda-action-filter/pkg/models"
)

// HTTPServer serves the filter API.
type HTTPServer struct {
	store  *config.Store
	mux    *http.ServeMux
	server *http.Server

	limiterMu sync.Mutex
	limiter   *rate.Limiter // nil when rate limiting is off
}

// NewHTTPServer builds the server from the store's current configuration
// and subscribes to reloads so limiter settings follow the config file.
func NewHTTPServer(store *config.Store) *HTTPServer {
	s := &HTTPServer{
		store: store,
		mux:   http.NewServeMux(),
	}

	s.mux.HandleFunc("/actionfilter/filter", s.handleFilter)
	s.mux.HandleFunc("/actionfilter/healthz", s.handleHealthz)
	s.mux.HandleFunc("/actionfilter/reload", s.handleReload)

	settings := store.Snapshot().Application
	s.limiter = newLimiter(settings)

	addr := settings.ListenAddress
	if addr == "" {
		addr = ":8080"
	}
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	store.Subscribe(s.applyConfig)
	return s
}

// Start begins listening in a background goroutine and returns immediately.
// Startup failures (port already bound, permission denied) surface in the
// log; the health endpoint is the way to confirm the server actually came up.
func (s *HTTPServer) Start() {
	logger.L().Info("Starting HTTP server", "address", s.server.Addr)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Error("HTTP server error", "error", err)
		}
	}()
}

// Stop gracefully shuts the server down, waiting for in-flight requests
// until the context expires. Calling Stop on an already-stopped server is
// safe and returns nil.
func (s *HTTPServer) Stop(ctx context.Context) error {
	logger.L().Info("Stopping HTTP server")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	logger.L().Info("HTTP server stopped")
	return nil
}

// applyConfig runs on every successful config reload and carries the new
// limiter settings into the running server.
func (s *HTTPServer) applyConfig(cfg *models.Config) {
	settings := cfg.Application

	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()

	switch {
	case settings.RateLimit == nil:
		s.limiter = nil
	case s.limiter == nil:
		s.limiter = newLimiter(settings)
	default:
		s.limiter.SetLimit(rate.Limit(*settings.RateLimit))
		s.limiter.SetBurst(limiterBurst(settings))
	}
	logger.L().Info("Applied reloaded settings to HTTP server")
}

// allow consults the rate limiter, which may be swapped out by a reload at
// any moment.
func (s *HTTPServer) allow() bool {
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()
	if s.limiter == nil {
		return true
	}
	return s.limiter.Allow()
}

func newLimiter(settings models.ApplicationSettings) *rate.Limiter {
	if settings.RateLimit == nil {
		return nil
	}
	return rate.NewLimiter(rate.Limit(*settings.RateLimit), limiterBurst(settings))
}

// limiterBurst resolves the bucket size; with no explicit burst the bucket
// holds a single request.
func limiterBurst(settings models.ApplicationSettings) int {
	if settings.Burst != nil {
		return *settings.Burst
	}
	return 1
}
