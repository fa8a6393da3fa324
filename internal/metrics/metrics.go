package metrics

import (
	"net/http"
	"net/url"

	"github.com/FranksOps/airwave/internal/station"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airwave_fetch_attempts_total",
			Help: "Total number of mirror search attempts executed",
		},
		[]string{"mirror", "outcome"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "airwave_fetch_duration_seconds",
			Help:    "Duration of mirror search attempts in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 9},
		},
		[]string{"mirror"},
	)

	FetchStationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airwave_fetch_stations_total",
			Help: "Total valid stations returned by mirrors before deduplication",
		},
		[]string{"mirror"},
	)

	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airwave_searches_total",
			Help: "Total number of searches by profile and fill state",
		},
		[]string{"profile", "fill"},
	)

	SearchStations = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "airwave_search_stations",
			Help:    "Number of stations returned per search",
			Buckets: []float64{0, 10, 20, 40, 60, 90, 120},
		},
		[]string{"profile"},
	)
)

// RecordAttempt updates the metrics for a single mirror attempt.
func RecordAttempt(o *station.Outcome) {
	if o == nil {
		return
	}

	host := mirrorHost(o.Mirror)
	outcome := "ok"
	if !o.OK() {
		outcome = "error"
	}

	FetchAttemptsTotal.WithLabelValues(host, outcome).Inc()
	FetchDuration.WithLabelValues(host).Observe(o.Duration.Seconds())
	FetchStationsTotal.WithLabelValues(host).Add(float64(len(o.Stations)))
}

// RecordSearch updates the metrics for a completed search.
// fill is "full" when the limit was reached, "partial" or "empty" otherwise.
func RecordSearch(res station.Result, limit int) {
	fill := "partial"
	switch {
	case res.Count == 0:
		fill = "empty"
	case res.Count >= limit:
		fill = "full"
	}

	SearchesTotal.WithLabelValues(res.ProfileID, fill).Inc()
	SearchStations.WithLabelValues(res.ProfileID).Observe(float64(res.Count))
}

// Handler exposes the registered metrics in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

func mirrorHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}
