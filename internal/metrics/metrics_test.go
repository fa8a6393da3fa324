package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/FranksOps/airwave/internal/station"
)

func TestMetricsHandler(t *testing.T) {
	RecordAttempt(&station.Outcome{
		Mirror:   "https://de1.api.radio-browser.info",
		Stations: []station.Station{{ID: "a"}, {ID: "b"}},
		Duration: 300 * time.Millisecond,
	})
	RecordAttempt(&station.Outcome{
		Mirror:   "https://nl1.api.radio-browser.info",
		Error:    "HTTP 503",
		Duration: time.Second,
	})
	RecordAttempt(nil)
	RecordSearch(station.Result{ProfileID: "agency", Count: 15}, 15)
	RecordSearch(station.Result{ProfileID: "focus"}, 40)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	output := string(body)

	expected := []string{
		`airwave_fetch_attempts_total{mirror="de1.api.radio-browser.info",outcome="ok"}`,
		`airwave_fetch_attempts_total{mirror="nl1.api.radio-browser.info",outcome="error"}`,
		`airwave_fetch_stations_total{mirror="de1.api.radio-browser.info"} 2`,
		`airwave_fetch_duration_seconds_bucket`,
		`airwave_searches_total{fill="full",profile="agency"}`,
		`airwave_searches_total{fill="empty",profile="focus"}`,
		`airwave_search_stations_bucket`,
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("expected metrics output to contain %s", want)
		}
	}
}
