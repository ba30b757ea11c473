// Package server exposes the world engine over a JSON HTTP API.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lifequest/internal/httpmw"
	"lifequest/internal/world"
)

type Server struct {
	engine  *world.Engine
	metrics http.Handler
	log     *slog.Logger
	routes  RouteRegistry
	started time.Time
}

type Option func(*Server)

// WithMetrics mounts h at GET /metrics.
func WithMetrics(h http.Handler) Option { return func(s *Server) { s.metrics = h } }

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

func New(engine *world.Engine, opts ...Option) *Server {
	s := &Server{engine: engine, log: slog.Default(), started: time.Now()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the chi router with every route mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(httpmw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpmw.AccessLog(s.log))
	r.Use(httpmw.Recover(s.log))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "lifequest",
			"uptime":  time.Since(s.started).Round(time.Second).String(),
			"day":     s.engine.State().World.Day,
		})
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	s.routes = RouteRegistry{}
	r.Route("/api", func(r chi.Router) {
		s.mountAPI(r, "/api")
		r.Get("/routes", func(w http.ResponseWriter, r *http.Request) {
			writeOK(w, s.routes.List())
		})
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, failureBody{Code: "not_found", Message: "no such endpoint"})
		})
	})
	return r
}

// RunRefreshLoop calls RefreshTime every interval until ctx is done. It
// refreshes once immediately so a server started after midnight rolls over
// without waiting a full tick.
func (s *Server) RunRefreshLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	s.refresh(ctx)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.refresh(ctx)
		}
	}
}

func (s *Server) refresh(ctx context.Context) {
	if _, err := s.engine.RefreshTime(ctx); err != nil {
		s.log.Error("refresh failed", "error", err)
	}
}
