package useragent

import (
	"strings"
	"testing"
)

func TestInfo_String(t *testing.T) {
	cases := []struct {
		in   Info
		want string
	}{
		{Info{Name: "lobby-tv", Version: "2.1", Contact: "ops@example.com"}, "lobby-tv/2.1 (+ops@example.com)"},
		{Info{Name: "lobby tv", Version: "2.1"}, "lobby-tv/2.1"},
		{Info{Name: "a/b", Version: "1"}, "a-b/1"},
		{Info{Version: "3"}, "airwave/3"},
	}
	for _, tc := range cases {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("%+v: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestInfo_DefaultVersion(t *testing.T) {
	got := Info{Name: "airwave"}.String()
	if !strings.HasPrefix(got, "airwave/") || strings.HasSuffix(got, "/") {
		t.Errorf("expected a versioned identity, got %q", got)
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize("  custom/1.0\r\n"); got != "custom/1.0" {
		t.Errorf("expected control characters stripped, got %q", got)
	}
	if got := Sanitize("\n\t"); got != Default.String() {
		t.Errorf("expected default identity, got %q", got)
	}
}
