package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cloudwatcher/ndfd-forecast/internal/pipeline"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// ReadyFunc adapts a function to the ReadinessChecker interface.
type ReadyFunc func(ctx context.Context) error

func (f ReadyFunc) CheckReadiness(ctx context.Context) error { return f(ctx) }

// ForecastProvider generates a forecast for a point on demand.
type ForecastProvider interface {
	Generate(ctx context.Context, lat, lon float64) (pipeline.Result, error)
}

// Server exposes the forecast endpoint plus health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	provider   ForecastProvider
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /forecast, /healthz, /readyz, and
// /metrics routes.
func NewServer(addr string, provider ForecastProvider, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		provider: provider,
		logger:   logger,
	}

	mux.HandleFunc("GET /forecast", s.handleForecast)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	lat, err := parseCoord(r.URL.Query().Get("lat"), 90)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid lat: " + err.Error()})
		return
	}
	lon, err := parseCoord(r.URL.Query().Get("lon"), 180)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid lon: " + err.Error()})
		return
	}

	result, err := s.provider.Generate(r.Context(), lat, lon)
	if err != nil {
		s.logger.Error("forecast request failed", "lat", lat, "lon", lon, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "forecast unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// parseCoord parses a coordinate query parameter and bounds-checks it.
func parseCoord(raw string, bound float64) (float64, error) {
	if raw == "" {
		return 0, errMissing
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errNotANumber
	}
	if v < -bound || v > bound {
		return 0, errOutOfRange
	}
	return v, nil
}

var (
	errMissing    = coordError("missing")
	errNotANumber = coordError("not a number")
	errOutOfRange = coordError("out of range")
)

type coordError string

func (e coordError) Error() string { return string(e) }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
