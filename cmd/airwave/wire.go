package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/FranksOps/airwave/internal/config"
	"github.com/FranksOps/airwave/internal/fingerprint"
	"github.com/FranksOps/airwave/internal/mirror"
	"github.com/FranksOps/airwave/internal/profile"
	"github.com/FranksOps/airwave/internal/radiobrowser"
	"github.com/FranksOps/airwave/internal/search"
	"github.com/FranksOps/airwave/pkg/httpclient"
	"github.com/FranksOps/airwave/pkg/ratelimit"
	"github.com/FranksOps/airwave/pkg/useragent"
)

func transport(cfg config.Config) (http.RoundTripper, error) {
	tlsProfile, err := fingerprint.ParseProfile(cfg.TLSProfile)
	if err != nil {
		return nil, err
	}
	proxyURL, err := cfg.ProxyURL()
	if err != nil {
		return nil, err
	}
	t, err := fingerprint.Transport(fingerprint.Config{Profile: tlsProfile, Proxy: proxyURL})
	if err != nil {
		return nil, fmt.Errorf("failed to setup transport: %w", err)
	}
	return t, nil
}

// directoryClient is used for discovery and probing, outside of searches.
func directoryClient(cfg config.Config) (*httpclient.Client, error) {
	rt, err := transport(cfg)
	if err != nil {
		return nil, err
	}
	return httpclient.New(httpclient.Config{
		Timeout:      cfg.Timeout,
		MaxRedirects: 3,
		UserAgent:    useragent.Sanitize(cfg.UserAgent),
		Transport:    rt,
	})
}

// mirrorList returns the configured mirrors, replaced by the discovered
// list when discovery is enabled and succeeds.
func mirrorList(ctx context.Context, cfg config.Config, logger *slog.Logger) ([]string, error) {
	if !cfg.MirrorDiscovery {
		return cfg.Mirrors, nil
	}

	client, err := directoryClient(cfg)
	if err != nil {
		return nil, err
	}
	found, err := mirror.Discover(ctx, client, cfg.DiscoveryURL)
	if err != nil {
		if len(cfg.Mirrors) == 0 {
			return nil, err
		}
		logger.Warn("mirror discovery failed, using configured mirrors", "err", err)
		return cfg.Mirrors, nil
	}
	logger.Info("discovered mirrors", "count", len(found))
	return found, nil
}

func catalog(cfg config.Config) (*profile.Catalog, error) {
	if cfg.ProfilesFile == "" {
		return profile.DefaultCatalog(), nil
	}
	return profile.LoadFile(cfg.ProfilesFile)
}

func buildSearcher(ctx context.Context, cfg config.Config, logger *slog.Logger) (*search.Searcher, *mirror.Pool, error) {
	cat, err := catalog(cfg)
	if err != nil {
		return nil, nil, err
	}

	urls, err := mirrorList(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	pool, err := mirror.NewPool(mirror.Config{
		MaxFailures: cfg.MirrorMaxFailures,
		Cooldown:    cfg.MirrorCooldown,
	}, urls...)
	if err != nil {
		return nil, nil, err
	}

	rt, err := transport(cfg)
	if err != nil {
		return nil, nil, err
	}
	fetcher, err := radiobrowser.NewFetcher(radiobrowser.FetchConfig{
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
		Transport: rt,
		Limiter:   ratelimit.NewLimiter(cfg.RequestsPerSecond, cfg.Jitter),
		Logger:    logger,
	})
	if err != nil {
		return nil, nil, err
	}

	searcher, err := search.New(search.Config{
		Catalog:     cat,
		Mirrors:     pool,
		Fetcher:     fetcher,
		Concurrency: cfg.Concurrency,
		Logger:      logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return searcher, pool, nil
}
