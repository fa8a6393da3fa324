package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/FranksOps/airwave/internal/mirror"
	"github.com/FranksOps/airwave/internal/station"
)

func sampleResult() station.Result {
	kbps := 128
	return station.Result{
		ProfileID: "agency",
		Label:     "Agency",
		Count:     2,
		Stations: []station.Station{
			{ID: "a1", Name: "Radio <One>", StreamURL: "https://one.example/stream", CountryCode: "BR", Codec: "MP3", Bitrate: &kbps, Tags: []string{"dance", "pop"}},
			{ID: "b2", Name: "Two, FM", StreamURL: "https://two.example/stream", Codec: "AAC"},
		},
		Errors: []string{"https://de1.example :: pop/BR/MP3 => HTTP 503"},
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Agency (agency): 2 stations",
		"  1. Radio <One> [BR MP3 128k]",
		"  2. Two, FM [-- AAC ?]",
		"https://two.example/stream",
		"Errors:",
		"pop/BR/MP3 => HTTP 503",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestWriteText_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, station.Result{ProfileID: "focus", Label: "Focus"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "No stations found.") {
		t.Errorf("expected empty notice, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "Errors:") {
		t.Errorf("expected no error section, got %q", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, station.Result{ProfileID: "focus", Label: "Focus"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if _, ok := decoded["stations"].([]any); !ok {
		t.Errorf("expected stations array, got %v", decoded["stations"])
	}
	if _, ok := decoded["errors"].([]any); !ok {
		t.Errorf("expected errors array, got %v", decoded["errors"])
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "id" || rows[0][2] != "stream_url" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if rows[1][5] != "128" || rows[1][6] != "dance;pop" {
		t.Errorf("unexpected first row %v", rows[1])
	}
	if rows[2][1] != "Two, FM" || rows[2][5] != "" {
		t.Errorf("unexpected second row %v", rows[2])
	}
}

func TestWriteHTML_Escapes(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Radio &lt;One&gt;") {
		t.Errorf("expected escaped station name, got:\n%s", out)
	}
	if !strings.Contains(out, `href="https://one.example/stream"`) {
		t.Errorf("expected stream link, got:\n%s", out)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "JSON": FormatJSON, " csv ": FormatCSV, "html": FormatHTML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteMirrors(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMirrors(&buf, []mirror.Status{
		{URL: "https://de1.example", OK: true, Latency: 42 * time.Millisecond},
		{URL: "https://nl1.example", Error: "HTTP 502"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "up") || !strings.Contains(lines[0], "42ms") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "down") || !strings.Contains(lines[1], "HTTP 502") {
		t.Errorf("unexpected second line %q", lines[1])
	}
}
