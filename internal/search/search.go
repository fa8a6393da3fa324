package search

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/FranksOps/airwave/internal/metrics"
	"github.com/FranksOps/airwave/internal/mirror"
	"github.com/FranksOps/airwave/internal/profile"
	"github.com/FranksOps/airwave/internal/station"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Fetcher executes one query against one mirror. Implementations report
// failures through Outcome.Error and must never return nil.
type Fetcher interface {
	Fetch(ctx context.Context, mirror string, q station.Query) *station.Outcome
}

// Config wires a Searcher.
type Config struct {
	Catalog *profile.Catalog
	Mirrors *mirror.Pool
	Fetcher Fetcher
	// Concurrency is the number of attempts in flight against one mirror.
	// 1 (the default) runs the plan strictly in order.
	Concurrency int
	Logger      *slog.Logger
}

// Searcher runs profile searches across the mirror pool.
type Searcher struct {
	cfg    Config
	logger *slog.Logger
}

// New validates cfg and returns a Searcher.
func New(cfg Config) (*Searcher, error) {
	if cfg.Mirrors == nil || cfg.Mirrors.Len() == 0 {
		return nil, errors.New("search: at least one mirror is required")
	}
	if cfg.Fetcher == nil {
		return nil, errors.New("search: fetcher is required")
	}
	if cfg.Catalog == nil {
		cfg.Catalog = profile.DefaultCatalog()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{cfg: cfg, logger: logger}, nil
}

// Catalog returns the profiles this searcher resolves against.
func (s *Searcher) Catalog() *profile.Catalog {
	return s.cfg.Catalog
}

// Search resolves params and walks mirrors in pool order, running the attempt
// plan against each until enough unique stations are collected. It never
// fails: exhausted plans and cancelled contexts yield whatever was found,
// with up to station.MaxErrors diagnostics describing failed attempts.
func (s *Searcher) Search(ctx context.Context, params profile.Params) station.Result {
	start := time.Now()
	req := s.cfg.Catalog.Resolve(params)
	plan := Plan(req)

	logger := s.logger.With("search_id", uuid.NewString(), "profile", req.Profile.ID)
	logger.Debug("search started", "limit", req.Limit, "attempts_planned", len(plan))

	col := NewCollector(req.Limit)
	var diags []string
	attempts, failures := 0, 0
	window := s.cfg.Concurrency

loop:
	for _, m := range s.cfg.Mirrors.Ordered() {
		for lo := 0; lo < len(plan); lo += window {
			if col.Done() || ctx.Err() != nil {
				break loop
			}
			hi := min(lo+window, len(plan))

			for _, out := range s.run(ctx, m, plan[lo:hi]) {
				if ctx.Err() != nil {
					// Attempts cut short by the caller say nothing about the mirror.
					break loop
				}
				attempts++
				if out.OK() {
					s.cfg.Mirrors.MarkSuccess(m)
					col.Add(out.Stations...)
				} else {
					s.cfg.Mirrors.MarkFailure(m)
					failures++
					if len(diags) < station.MaxErrors {
						diags = append(diags, out.Diagnostic())
					}
				}
				if col.Done() {
					break loop
				}
			}
		}
	}

	stations := col.Stations()
	res := station.Result{
		ProfileID: req.Profile.ID,
		Label:     req.Profile.Label,
		Count:     len(stations),
		Stations:  stations,
		Errors:    diags,
	}
	metrics.RecordSearch(res, req.Limit)

	logger.Info("search finished",
		"stations", res.Count,
		"limit", req.Limit,
		"attempts", attempts,
		"failures", failures,
		"canceled", ctx.Err() != nil,
		"duration", time.Since(start),
	)
	return res
}

// run executes a window of attempts against one mirror and returns the
// outcomes in plan order.
func (s *Searcher) run(ctx context.Context, mirrorURL string, queries []station.Query) []*station.Outcome {
	outcomes := make([]*station.Outcome, len(queries))
	if len(queries) == 1 {
		outcomes[0] = s.fetch(ctx, mirrorURL, queries[0])
		return outcomes
	}

	var g errgroup.Group
	for i, q := range queries {
		g.Go(func() error {
			outcomes[i] = s.fetch(ctx, mirrorURL, q)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (s *Searcher) fetch(ctx context.Context, mirrorURL string, q station.Query) *station.Outcome {
	out := s.cfg.Fetcher.Fetch(ctx, mirrorURL, q)
	if out == nil {
		out = &station.Outcome{Mirror: mirrorURL, Query: q, Error: "no outcome"}
	}
	return out
}
