// Package server exposes the query API over HTTP: log listing with filters
// and pagination, filter dropdown options, traffic analytics, and the usage
// statistics report.
package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/netglean/fnslog/internal/config"
	"github.com/netglean/fnslog/internal/retention"
	"github.com/netglean/fnslog/internal/store"
	"github.com/netglean/fnslog/internal/tzconv"
)

// Server wires the store and retention engine into HTTP handlers. Now is
// injectable for tests; nil means the wall clock.
type Server struct {
	Store *store.Store
	Cfg   *config.Config
	Log   *zap.Logger
	Now   func() time.Time
}

func New(st *store.Store, cfg *config.Config, log *zap.Logger) *Server {
	return &Server{Store: st, Cfg: cfg, Log: log}
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Server) converter() *tzconv.Converter {
	return &tzconv.Converter{Log: s.Log}
}

func (s *Server) engine() *retention.Engine {
	return &retention.Engine{
		Store:  s.Store,
		Policy: retention.Policy{Days: s.Cfg.RetentionDays},
		Log:    s.Log,
		Now:    s.Now,
	}
}

// Handler builds the full route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/logs", s.handleLogs)
	mux.HandleFunc("GET /api/filter_options", s.handleFilterOptions)
	mux.HandleFunc("GET /api/analytics/by_source", s.handleAnalytics(store.BySource))
	mux.HandleFunc("GET /api/analytics/by_destination", s.handleAnalytics(store.ByDestination))
	mux.HandleFunc("GET /api/analytics/by_port", s.handleAnalytics(store.ByPort))
	mux.HandleFunc("GET /api/analytics/by_rule", s.handleAnalytics(store.ByRule))
	mux.HandleFunc("GET /api/statistics", s.handleStatistics)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	return s.withRequestLog(mux)
}

// withRequestLog tags every request with an ID and logs it on completion.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		w.Header().Set("X-Request-Id", id)

		next.ServeHTTP(sw, r)

		s.logger().Info("http request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"driver": s.Store.Driver(),
		"time":   s.now().UTC().Format(time.RFC3339),
	})
}
