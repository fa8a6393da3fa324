package profile

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestResolve_DefaultsUnknownProfile(t *testing.T) {
	c := DefaultCatalog()

	for _, id := range []string{"", "nope", "  "} {
		req := c.Resolve(Params{ProfileID: id})
		if req.Profile.ID != DefaultID {
			t.Errorf("profile %q: expected fallback to %q, got %q", id, DefaultID, req.Profile.ID)
		}
		if req.Limit != DefaultLimit {
			t.Errorf("profile %q: expected default limit %d, got %d", id, DefaultLimit, req.Limit)
		}
	}
}

func TestResolve_TagOverrideReplaces(t *testing.T) {
	c := DefaultCatalog()

	req := c.Resolve(Params{ProfileID: "focus", Tag: "jazz"})
	if req.Profile.ID != "focus" {
		t.Fatalf("expected focus profile, got %q", req.Profile.ID)
	}
	if !reflect.DeepEqual(req.Profile.Tags, []string{"jazz"}) {
		t.Errorf("expected tags [jazz], got %v", req.Profile.Tags)
	}
	if !reflect.DeepEqual(req.Profile.Countries, []string{""}) {
		t.Errorf("expected countries to stay untouched, got %v", req.Profile.Countries)
	}
}

func TestResolve_CountryOverride(t *testing.T) {
	c := DefaultCatalog()

	req := c.Resolve(Params{ProfileID: "agency", Country: " pt "})
	if !reflect.DeepEqual(req.Profile.Countries, []string{"PT"}) {
		t.Errorf("expected countries [PT], got %v", req.Profile.Countries)
	}
	if !reflect.DeepEqual(req.Profile.Tags, []string{"dance", "pop"}) {
		t.Errorf("expected agency tags, got %v", req.Profile.Tags)
	}
}

func TestResolve_DoesNotMutateCatalog(t *testing.T) {
	c := DefaultCatalog()

	req := c.Resolve(Params{ProfileID: "agency"})
	req.Profile.Tags[0] = "mutated"

	p, _ := c.Get("agency")
	if p.Tags[0] != "dance" {
		t.Errorf("catalog was mutated through a resolved request: %v", p.Tags)
	}
}

func TestResolve_ClampsLimit(t *testing.T) {
	c := DefaultCatalog()

	cases := []struct {
		in, want int
	}{
		{1, MinLimit},
		{-5, MinLimit},
		{15, 15},
		{500, MaxLimit},
		{120, 120},
	}
	for _, tc := range cases {
		if got := c.Resolve(Params{Limit: tc.in}).Limit; got != tc.want {
			t.Errorf("limit %d: expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestParseLimit(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", DefaultLimit},
		{"abc", DefaultLimit},
		{"NaN", DefaultLimit},
		{"1", MinLimit},
		{"15", 15},
		{"500", MaxLimit},
		{"99999999999999999999", MaxLimit},
		{"22.7", 22},
		{" 30 ", 30},
	}
	for _, tc := range cases {
		if got := ParseLimit(tc.in); got != tc.want {
			t.Errorf("ParseLimit(%q): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := Builtin()[0]
	if err := valid.Validate(); err != nil {
		t.Fatalf("builtin profile should be valid: %v", err)
	}

	noCountries := valid
	noCountries.Countries = nil
	if err := noCountries.Validate(); err == nil {
		t.Errorf("expected error for empty countries")
	}

	noCodecs := valid
	noCodecs.Codecs = []string{}
	if err := noCodecs.Validate(); err == nil {
		t.Errorf("expected error for empty codecs")
	}
}

func TestList_Sorted(t *testing.T) {
	list := DefaultCatalog().List()
	if len(list) != len(Builtin()) {
		t.Fatalf("expected %d profiles, got %d", len(Builtin()), len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Errorf("expected sorted ids, got %q before %q", list[i-1].ID, list[i].ID)
		}
	}
}

func TestLoadFile_MergesOverBuiltin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	data := `
default: lobby
profiles:
  - id: lobby
    label: Lobby
    tags: [smooth jazz]
    countries: [""]
    codecs: [AAC]
    bitrate_min: 128
    per_try_limit: 30
  - id: focus
    label: Deep Focus
    tags: [drone]
    countries: [DE, ""]
    codecs: [MP3]
    per_try_limit: 20
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.DefaultID() != "lobby" {
		t.Errorf("expected default lobby, got %q", c.DefaultID())
	}

	focus, ok := c.Get("focus")
	if !ok || focus.Label != "Deep Focus" || !reflect.DeepEqual(focus.Countries, []string{"DE", ""}) {
		t.Errorf("expected focus to be replaced, got %+v", focus)
	}

	if _, ok := c.Get("agency"); !ok {
		t.Errorf("expected builtin agency to survive merge")
	}

	lobby := c.Resolve(Params{ProfileID: "missing"})
	if lobby.Profile.ID != "lobby" || lobby.Profile.BitrateMin != 128 {
		t.Errorf("expected fallback to lobby, got %+v", lobby.Profile)
	}
}

func TestParse_RejectsInvalidProfile(t *testing.T) {
	data := []byte(`
profiles:
  - id: broken
    tags: [rock]
    countries: []
    codecs: [MP3]
    per_try_limit: 10
`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected validation error for empty countries")
	}
}
