package station

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestOutcome_Diagnostic(t *testing.T) {
	o := &Outcome{
		Mirror: "https://de1.api.radio-browser.info",
		Query:  Query{Tag: "dance", CountryCode: "", Codec: "MP3"},
		Error:  "HTTP 503",
	}

	want := "https://de1.api.radio-browser.info :: dance//MP3 => HTTP 503"
	if got := o.Diagnostic(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if o.OK() {
		t.Errorf("expected failed outcome to report !OK")
	}
}

func TestResult_MarshalEmptyArrays(t *testing.T) {
	data, err := json.Marshal(Result{ProfileID: "agency", Label: "Agency"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := string(data)
	if !strings.Contains(out, `"stations":[]`) {
		t.Errorf("expected empty stations array, got %s", out)
	}
	if !strings.Contains(out, `"errors":[]`) {
		t.Errorf("expected empty errors array, got %s", out)
	}
}

func TestStation_OmitsAbsentMetadata(t *testing.T) {
	data, err := json.Marshal(Station{ID: "a", Name: "A", StreamURL: "https://a/stream"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := string(data)
	for _, field := range []string{"favicon", "homepage", "tags", "codec", "bitrate"} {
		if strings.Contains(out, field) {
			t.Errorf("expected %s to be omitted, got %s", field, out)
		}
	}
}
