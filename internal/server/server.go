// Package server provides the main HTTP server for NetPanel.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/HerbHall/netpanel/internal/version"
	"github.com/HerbHall/netpanel/pkg/plugin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// APIPrefix is where versioned module routes are mounted.
const APIPrefix = "/api/v1"

// LegacyPrefix is where the route aliases of the original dashboard UI live.
const LegacyPrefix = "/api"

// maxBodyBytes caps request bodies.
const maxBodyBytes = 10 << 20

// ReadinessChecker verifies that the server is ready to serve traffic.
// Returns nil if ready, an error describing why not otherwise.
type ReadinessChecker func(ctx context.Context) error

// Mount attaches the routes of a provider under a path prefix.
type Mount struct {
	Prefix   string
	Provider plugin.HTTPProvider
}

// Server is the main NetPanel HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	ready      ReadinessChecker
	checks     map[string]plugin.HealthChecker
}

// New creates a new Server with middleware and routes.
// The dashboard parameter is optional; pass nil to disable UI serving.
// When cfg.DevMode is true, Swagger UI is served at /swagger/.
// checks are reported by GET /api/v1/health, keyed by component name.
func New(cfg Config, logger *zap.Logger, ready ReadinessChecker, dashboard http.Handler, checks map[string]plugin.HealthChecker, mounts ...Mount) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger: logger,
		mux:    mux,
		ready:  ready,
		checks: checks,
	}

	s.registerRoutes()
	for _, m := range mounts {
		s.mount(m)
	}

	if cfg.DevMode {
		mux.Handle("GET /swagger/", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
		logger.Info("swagger UI enabled (dev_mode)", zap.String("path", "/swagger/"))
	}

	// Mount dashboard last as a catch-all for SPA routing
	if dashboard != nil {
		mux.Handle("/", dashboard)
	}

	// Middleware chain: outermost listed first.
	handler := Chain(mux,
		RecoveryMiddleware(logger),
		RequestIDMiddleware,
		LoggingMiddleware(logger, []string{"/healthz", "/readyz", "/metrics"}),
		SecurityHeadersMiddleware,
		CORSMiddleware(cfg.CORSOrigin),
		VersionHeaderMiddleware,
		RateLimitMiddleware(100, 200, []string{"/healthz", "/readyz", "/metrics"}),
		MaxBodyMiddleware(maxBodyBytes),
	)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// History queries fan out to several upstream calls.
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// registerRoutes sets up all core routes.
func (s *Server) registerRoutes() {
	// Unversioned operational endpoints.
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.HandleFunc("GET /readyz", s.handleReadyz)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	// Versioned API endpoints.
	s.mux.HandleFunc("GET "+APIPrefix+"/health", s.handleHealth)

	// Unknown API paths get a problem response instead of the UI.
	s.mux.HandleFunc(LegacyPrefix+"/", func(w http.ResponseWriter, r *http.Request) {
		NotFound(w, "no such API route", r.URL.Path)
	})
}

// mount registers the routes of one provider under its prefix.
func (s *Server) mount(m Mount) {
	for _, route := range m.Provider.Routes() {
		pattern := fmt.Sprintf("%s %s%s", route.Method, m.Prefix, route.Path)
		s.mux.HandleFunc(pattern, route.Handler)
		s.logger.Debug("mounted route", zap.String("pattern", pattern))
	}
}

// Handler returns the root handler including the middleware chain.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// handleHealthz is a liveness probe -- returns 200 if the process is running.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// handleReadyz checks readiness -- returns 200 once the upstream session
// holds a token.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
	}

	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status     string                         `json:"status" example:"ok"`
	Service    string                         `json:"service" example:"netpanel"`
	Version    map[string]string              `json:"version"`
	Components map[string]plugin.HealthStatus `json:"components,omitempty"`
}

// handleHealth returns detailed health information (versioned API endpoint).
// Status is "degraded" when any component reports something other than
// healthy.
//
//	@Summary		Health check
//	@Description	Returns service health status with version information.
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Service: "netpanel",
		Version: version.Map(),
	}

	if len(s.checks) > 0 {
		resp.Components = make(map[string]plugin.HealthStatus, len(s.checks))
		for name, check := range s.checks {
			st := check.Health(r.Context())
			resp.Components[name] = st
			if st.Status != "healthy" {
				resp.Status = "degraded"
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
