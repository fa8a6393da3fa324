package mirror

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/FranksOps/airwave/pkg/httpclient"
	"golang.org/x/sync/errgroup"
)

// DiscoveryURL lists every mirror currently behind the round-robin DNS name.
const DiscoveryURL = "https://all.api.radio-browser.info/json/servers"

type server struct {
	Name string `json:"name"`
	IP   string `json:"ip"`
}

// Discover asks the directory for its current mirrors and returns them as
// sorted, deduplicated base URLs. Several IPs usually share one name.
func Discover(ctx context.Context, client *httpclient.Client, discoveryURL string) ([]string, error) {
	if discoveryURL == "" {
		discoveryURL = DiscoveryURL
	}

	var servers []server
	if err := client.GetJSON(ctx, discoveryURL, &servers); err != nil {
		return nil, fmt.Errorf("mirror: discover: %w", err)
	}

	seen := make(map[string]struct{}, len(servers))
	var out []string
	for _, s := range servers {
		name := strings.ToLower(strings.TrimSpace(s.Name))
		if name == "" {
			continue
		}
		u, err := Normalize(name)
		if err != nil {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}

	if len(out) == 0 {
		return nil, errors.New("mirror: discover: no servers listed")
	}
	sort.Strings(out)
	return out, nil
}

// Status is the reachability of one mirror.
type Status struct {
	URL     string        `json:"url"`
	OK      bool          `json:"ok"`
	Latency time.Duration `json:"latency"`
	Error   string        `json:"error,omitempty"`
}

// Probe checks every mirror's stats endpoint concurrently and returns one
// Status per mirror in input order.
func Probe(ctx context.Context, client *httpclient.Client, mirrors []string) []Status {
	statuses := make([]Status, len(mirrors))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, m := range mirrors {
		g.Go(func() error {
			start := time.Now()
			var stats map[string]any
			err := client.GetJSON(gCtx, m+"/json/stats", &stats)

			st := Status{URL: m, OK: err == nil, Latency: time.Since(start)}
			if err != nil {
				st.Error = err.Error()
			}
			statuses[i] = st
			// Errors are reported per mirror; never cancel the siblings.
			return nil
		})
	}
	_ = g.Wait()

	return statuses
}
