package profile

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	MinLimit     = 10
	MaxLimit     = 120
	DefaultLimit = 40

	// DefaultID is used when a requested profile is absent or unknown.
	DefaultID = "agency"
)

// Profile describes the kind of stations a caller wants, in priority order.
type Profile struct {
	ID          string   `json:"id" yaml:"id"`
	Label       string   `json:"label" yaml:"label"`
	Tags        []string `json:"tags" yaml:"tags"`
	Countries   []string `json:"countryPriority" yaml:"countries"` // "" means unfiltered
	BitrateMin  int      `json:"bitrateMin" yaml:"bitrate_min"`
	Codecs      []string `json:"codecs" yaml:"codecs"`
	PerTryLimit int      `json:"perTryLimit" yaml:"per_try_limit"`
}

// Validate checks that every priority list is populated.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("profile: id is required")
	}
	if len(p.Tags) == 0 {
		return fmt.Errorf("profile %q: tags must not be empty", p.ID)
	}
	if len(p.Countries) == 0 {
		return fmt.Errorf("profile %q: countries must not be empty (use [\"\"] for no filter)", p.ID)
	}
	if len(p.Codecs) == 0 {
		return fmt.Errorf("profile %q: codecs must not be empty", p.ID)
	}
	if p.PerTryLimit <= 0 {
		return fmt.Errorf("profile %q: per_try_limit must be positive", p.ID)
	}
	if p.BitrateMin < 0 {
		return fmt.Errorf("profile %q: bitrate_min must not be negative", p.ID)
	}
	return nil
}

func (p Profile) clone() Profile {
	p.Tags = append([]string(nil), p.Tags...)
	p.Countries = append([]string(nil), p.Countries...)
	p.Codecs = append([]string(nil), p.Codecs...)
	return p
}

// Params are the caller-supplied inputs of a search. Every field is optional.
type Params struct {
	ProfileID string
	Tag       string
	Country   string
	Limit     int // 0 selects DefaultLimit
}

// Request is a fully resolved search invocation.
type Request struct {
	Profile Profile
	Limit   int
}

// Catalog is an immutable set of profiles keyed by ID.
type Catalog struct {
	profiles  map[string]Profile
	defaultID string
}

// NewCatalog builds a catalog from the given profiles. defaultID must name one of them.
func NewCatalog(defaultID string, profiles ...Profile) (*Catalog, error) {
	c := &Catalog{
		profiles:  make(map[string]Profile, len(profiles)),
		defaultID: defaultID,
	}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		c.profiles[p.ID] = p.clone()
	}
	if _, ok := c.profiles[defaultID]; !ok {
		return nil, fmt.Errorf("profile: default profile %q not in catalog", defaultID)
	}
	return c, nil
}

// DefaultCatalog returns the built-in profiles.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultID, Builtin()...)
	if err != nil {
		panic(err)
	}
	return c
}

// Builtin returns a fresh copy of the built-in profile table.
func Builtin() []Profile {
	return []Profile{
		{
			ID:          "agency",
			Label:       "Agency",
			Tags:        []string{"dance", "pop"},
			Countries:   []string{"BR", ""},
			BitrateMin:  96,
			Codecs:      []string{"MP3"},
			PerTryLimit: 60,
		},
		{
			ID:          "focus",
			Label:       "Focus",
			Tags:        []string{"lofi", "ambient", "instrumental"},
			Countries:   []string{""},
			BitrateMin:  64,
			Codecs:      []string{"MP3", "AAC"},
			PerTryLimit: 40,
		},
		{
			ID:          "chill",
			Label:       "Chill",
			Tags:        []string{"chillout", "lounge", "jazz"},
			Countries:   []string{"BR", ""},
			BitrateMin:  96,
			Codecs:      []string{"MP3", "AAC"},
			PerTryLimit: 40,
		},
		{
			ID:          "mpb",
			Label:       "MPB",
			Tags:        []string{"mpb", "bossa nova"},
			Countries:   []string{"BR"},
			BitrateMin:  64,
			Codecs:      []string{"MP3", "AAC"},
			PerTryLimit: 50,
		},
	}
}

// Get returns a copy of the profile with the given ID.
func (c *Catalog) Get(id string) (Profile, bool) {
	p, ok := c.profiles[id]
	if !ok {
		return Profile{}, false
	}
	return p.clone(), true
}

// DefaultID returns the fallback profile ID.
func (c *Catalog) DefaultID() string {
	return c.defaultID
}

// List returns copies of all profiles sorted by ID.
func (c *Catalog) List() []Profile {
	out := make([]Profile, 0, len(c.profiles))
	for _, p := range c.profiles {
		out = append(out, p.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Resolve maps caller params onto a concrete Request. It never fails: unknown
// profiles fall back to the default and limits are clamped.
//
// A tag or country override replaces the whole priority list for that
// dimension with a single value; overrides are never merged with the profile.
func (c *Catalog) Resolve(params Params) Request {
	p, ok := c.Get(strings.TrimSpace(params.ProfileID))
	if !ok {
		p, _ = c.Get(c.defaultID)
	}

	if tag := strings.ToLower(strings.TrimSpace(params.Tag)); tag != "" {
		p.Tags = []string{tag}
	}
	if country := strings.ToUpper(strings.TrimSpace(params.Country)); country != "" {
		p.Countries = []string{country}
	}

	limit := params.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	return Request{
		Profile: p,
		Limit:   ClampLimit(limit),
	}
}

// ClampLimit forces n into [MinLimit, MaxLimit].
func ClampLimit(n int) int {
	if n < MinLimit {
		return MinLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// ParseLimit converts raw user input into a clamped limit. Blank or
// non-numeric input selects DefaultLimit.
func ParseLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || math.IsNaN(f) {
			return DefaultLimit
		}
		switch {
		case f > MaxLimit:
			return MaxLimit
		case f < MinLimit:
			return MinLimit
		}
		n = int(f)
	}
	return ClampLimit(n)
}
