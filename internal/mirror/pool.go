package mirror

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Defaults is the built-in mirror list, in priority order.
var Defaults = []string{
	"https://de1.api.radio-browser.info",
	"https://nl1.api.radio-browser.info",
	"https://at1.api.radio-browser.info",
}

// Mirror represents a single directory mirror with health tracking.
type Mirror struct {
	URL           string    `json:"url"`
	Failures      int       `json:"failures"`
	Successes     int       `json:"successes"`
	LastUsed      time.Time `json:"lastUsed"`
	Disabled      bool      `json:"disabled"`
	DisabledUntil time.Time `json:"disabledUntil"`
}

// Config defines settings for the mirror Pool.
type Config struct {
	// MaxFailures before a mirror is skipped temporarily. Zero disables health
	// tracking so every mirror is always tried in order.
	MaxFailures int
	// Cooldown is how long a mirror is skipped after hitting MaxFailures.
	Cooldown time.Duration
}

// Pool holds an ordered, fixed list of interchangeable mirrors.
type Pool struct {
	mu          sync.Mutex
	mirrors     []*Mirror
	maxFailures int
	cooldown    time.Duration
	now         func() time.Time
}

// NewPool creates a pool from the given base URLs. Order is priority order;
// duplicates are dropped.
func NewPool(cfg Config, urls ...string) (*Pool, error) {
	if cfg.MaxFailures < 0 {
		cfg.MaxFailures = 0
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 5 * time.Minute
	}

	p := &Pool{
		maxFailures: cfg.MaxFailures,
		cooldown:    cfg.Cooldown,
		now:         time.Now,
	}

	seen := make(map[string]struct{}, len(urls))
	for _, raw := range urls {
		u, err := Normalize(raw)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		p.mirrors = append(p.mirrors, &Mirror{URL: u})
	}

	if len(p.mirrors) == 0 {
		return nil, errors.New("mirror: at least one mirror is required")
	}
	return p, nil
}

// Normalize turns "de1.api.radio-browser.info" or "https://host/" into "https://host".
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("mirror: empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("mirror: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("mirror: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("mirror: missing host in %q", raw)
	}
	return strings.TrimRight(u.Scheme+"://"+u.Host+u.Path, "/"), nil
}

// Len returns the number of configured mirrors.
func (p *Pool) Len() int {
	return len(p.mirrors)
}

// Ordered returns the mirrors to try, in priority order. Mirrors cooling down
// after repeated failures are skipped; when every mirror is cooling down the
// full list is returned so a search never runs against nothing.
func (p *Pool) Ordered() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	all := make([]string, 0, len(p.mirrors))
	healthy := make([]string, 0, len(p.mirrors))
	for _, m := range p.mirrors {
		if m.Disabled && now.After(m.DisabledUntil) {
			m.Disabled = false
			m.Failures = 0 // reset failures on revival
		}
		all = append(all, m.URL)
		if !m.Disabled {
			healthy = append(healthy, m.URL)
		}
	}

	if len(healthy) == 0 {
		return all
	}
	return healthy
}

// MarkSuccess records a successful attempt against the mirror.
func (p *Pool) MarkSuccess(mirrorURL string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	m := p.find(mirrorURL)
	if m == nil {
		return
	}
	m.Successes++
	m.LastUsed = p.now()
	if m.Failures > 0 {
		m.Failures--
	}
}

// MarkFailure records a failed attempt. With health tracking enabled, reaching
// MaxFailures disables the mirror for the cooldown period.
func (p *Pool) MarkFailure(mirrorURL string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	m := p.find(mirrorURL)
	if m == nil {
		return
	}
	m.Failures++
	m.LastUsed = p.now()
	if p.maxFailures > 0 && m.Failures >= p.maxFailures && !m.Disabled {
		m.Disabled = true
		m.DisabledUntil = p.now().Add(p.cooldown)
	}
}

// Snapshot returns a copy of every mirror's health state.
func (p *Pool) Snapshot() []Mirror {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Mirror, len(p.mirrors))
	for i, m := range p.mirrors {
		out[i] = *m
	}
	return out
}

// find locates a mirror by URL. Must be called with lock held.
func (p *Pool) find(mirrorURL string) *Mirror {
	for _, m := range p.mirrors {
		if m.URL == mirrorURL {
			return m
		}
	}
	return nil
}
