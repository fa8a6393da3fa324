package radiobrowser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/FranksOps/airwave/internal/bypass"
	"github.com/FranksOps/airwave/internal/metrics"
	"github.com/FranksOps/airwave/internal/station"
	"github.com/FranksOps/airwave/pkg/httpclient"
	"github.com/FranksOps/airwave/pkg/ratelimit"
	"github.com/FranksOps/airwave/pkg/useragent"
)

// DefaultTimeout bounds a single search request against one mirror.
const DefaultTimeout = 9 * time.Second

const (
	searchPath   = "/json/stations/search"
	maxBodyBytes = 16 << 20
)

// FetchConfig configures a Fetcher.
type FetchConfig struct {
	Timeout   time.Duration
	UserAgent string
	// Transport is handed to the HTTP client, e.g. a fingerprinted transport.
	Transport http.RoundTripper
	Limiter   *ratelimit.Limiter
	Logger    *slog.Logger
}

// Fetcher runs station searches against directory mirrors.
type Fetcher struct {
	config FetchConfig
	client *httpclient.Client
}

// NewFetcher initializes a Fetcher. A single client is held so connections
// to each mirror are reused across attempts.
func NewFetcher(cfg FetchConfig) (*Fetcher, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.UserAgent = useragent.Sanitize(cfg.UserAgent)
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	client, err := httpclient.New(httpclient.Config{
		Timeout:      cfg.Timeout,
		MaxRedirects: 3,
		UserAgent:    cfg.UserAgent,
		Transport:    cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Fetcher{config: cfg, client: client}, nil
}

// SearchURL builds the station search URL for q on the given mirror.
func SearchURL(mirror string, q station.Query) (string, error) {
	u, err := url.Parse(mirror)
	if err != nil {
		return "", err
	}
	u.Path = u.Path + searchPath

	v := url.Values{}
	v.Set("tag", q.Tag)
	if q.CountryCode != "" {
		v.Set("countrycode", q.CountryCode)
	}
	v.Set("codec", q.Codec)
	v.Set("bitrateMin", strconv.Itoa(q.BitrateMin))
	v.Set("hidebroken", "true")
	v.Set("is_https", "true")
	v.Set("order", "votes")
	v.Set("reverse", "true")
	v.Set("limit", strconv.Itoa(q.Limit))
	u.RawQuery = v.Encode()

	return u.String(), nil
}

// Fetch executes q against mirror. It never returns nil; failures are
// reported through Outcome.Error and never abort the caller.
func (f *Fetcher) Fetch(ctx context.Context, mirror string, q station.Query) *station.Outcome {
	out := f.fetch(ctx, mirror, q)
	metrics.RecordAttempt(out)

	if !out.OK() {
		f.config.Logger.Debug("search attempt failed",
			"mirror", mirror, "query", q.String(), "reason", out.Error, "duration", out.Duration)
	} else {
		f.config.Logger.Debug("search attempt ok",
			"mirror", mirror, "query", q.String(), "stations", len(out.Stations), "duration", out.Duration)
	}
	return out
}

func (f *Fetcher) fetch(ctx context.Context, mirror string, q station.Query) *station.Outcome {
	out := &station.Outcome{Mirror: mirror, Query: q}

	if err := f.config.Limiter.Wait(ctx); err != nil {
		out.Error = fmt.Sprintf("rate limiter failed: %v", err)
		return out
	}

	start := time.Now()
	defer func() { out.Duration = time.Since(start) }()

	target, err := SearchURL(mirror, q)
	if err != nil {
		out.Error = fmt.Sprintf("invalid mirror: %v", err)
		return out
	}

	ctx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		out.Error = fmt.Sprintf("failed to create request: %v", err)
		return out
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(ctx, req)
	if err != nil {
		out.Error = f.requestFailure(err)
		return out
	}
	defer resp.Body.Close()

	out.StatusCode = resp.StatusCode

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		out.Error = fmt.Sprintf("request failed: read body: %v", err)
		return out
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		out.Error = bypass.Describe(bypass.Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
		})
		return out
	}

	raw, err := decodeStations(body)
	if err != nil {
		out.Error = fmt.Sprintf("decode failed: %v", err)
		return out
	}

	out.Stations = make([]station.Station, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.toStation(q.BitrateMin); ok {
			out.Stations = append(out.Stations, s)
		}
	}
	return out
}

func (f *Fetcher) requestFailure(err error) string {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Sprintf("request failed: timeout after %s", f.config.Timeout)
	}
	if errors.Is(err, context.Canceled) {
		return "request failed: canceled"
	}
	return fmt.Sprintf("request failed: %v", err)
}
