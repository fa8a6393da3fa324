package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/FranksOps/airwave/internal/metrics"
	"github.com/FranksOps/airwave/internal/mirror"
	"github.com/FranksOps/airwave/internal/profile"
	"github.com/FranksOps/airwave/internal/station"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Searcher runs a profile search. It never fails; see search.Searcher.
type Searcher interface {
	Search(ctx context.Context, params profile.Params) station.Result
}

// Config wires the HTTP API.
type Config struct {
	Searcher Searcher
	Catalog  *profile.Catalog
	// Mirrors is optional; when set its health is exposed at /api/radio/mirrors.
	Mirrors *mirror.Pool
	Logger  *slog.Logger
}

// Server exposes searches over HTTP.
type Server struct {
	cfg    Config
	logger *slog.Logger
	router *chi.Mux
}

// New builds the router.
func New(cfg Config) (*Server, error) {
	if cfg.Searcher == nil {
		return nil, errors.New("server: searcher is required")
	}
	if cfg.Catalog == nil {
		cfg.Catalog = profile.DefaultCatalog()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/api/radio", s.handleSearch)
	r.Get("/api/radio/profiles", s.handleProfiles)
	r.Get("/api/radio/mirrors", s.handleMirrors)

	s.router = r
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// handleSearch always answers 200; upstream failures travel in the body.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := profile.Params{
		ProfileID: q.Get("profile"),
		Tag:       q.Get("tag"),
		Country:   q.Get("country"),
		Limit:     profile.ParseLimit(q.Get("limit")),
	}

	res := s.cfg.Searcher.Search(r.Context(), params)
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleProfiles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"default":  s.cfg.Catalog.DefaultID(),
		"profiles": s.cfg.Catalog.List(),
	})
}

func (s *Server) handleMirrors(w http.ResponseWriter, _ *http.Request) {
	mirrors := []mirror.Mirror{}
	if s.cfg.Mirrors != nil {
		mirrors = s.cfg.Mirrors.Snapshot()
	}
	writeJSON(w, http.StatusOK, map[string]any{"mirrors": mirrors})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
