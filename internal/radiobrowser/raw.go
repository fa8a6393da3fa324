package radiobrowser

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/FranksOps/airwave/internal/station"
)

// rawStation is the boundary shape of one directory entry. Every field is
// optional and tolerant of the type drift seen across mirrors; nothing outside
// this file sees it.
type rawStation struct {
	StationUUID   flexString `json:"stationuuid"`
	Name          flexString `json:"name"`
	URL           flexString `json:"url"`
	URLResolved   flexString `json:"url_resolved"`
	Homepage      flexString `json:"homepage"`
	Favicon       flexString `json:"favicon"`
	Tags          flexString `json:"tags"`
	Country       flexString `json:"country"`
	CountryCode   flexString `json:"countrycode"`
	Codec         flexString `json:"codec"`
	Bitrate       flexInt    `json:"bitrate"`
	LastCheckOK   flexInt    `json:"lastcheckok"`
	LastCheckTime flexString `json:"lastchecktime"`
}

// decodeStations parses a JSON array of directory entries. The body must be an
// array; individual entries that are not objects are skipped.
func decodeStations(body []byte) ([]rawStation, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, err
	}

	out := make([]rawStation, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			continue
		}
		var rs rawStation
		if err := json.Unmarshal(item, &rs); err != nil {
			continue
		}
		out = append(out, rs)
	}
	return out, nil
}

// toStation validates a raw entry. Entries without an identity or a usable
// stream URL are rejected, as are entries whose last check failed or whose
// known bitrate is under bitrateMin.
func (r rawStation) toStation(bitrateMin int) (station.Station, bool) {
	if r.StationUUID.String() == "" {
		return station.Station{}, false
	}

	stream := streamURL(r.URLResolved.String())
	if stream == "" {
		stream = streamURL(r.URL.String())
	}
	if stream == "" {
		return station.Station{}, false
	}

	if !r.LastCheckOK.set || r.LastCheckOK.v != 1 {
		return station.Station{}, false
	}

	s := station.Station{
		ID:          r.StationUUID.String(),
		Name:        r.Name.String(),
		StreamURL:   stream,
		Favicon:     r.Favicon.String(),
		Homepage:    r.Homepage.String(),
		Tags:        splitTags(r.Tags.String()),
		Country:     r.Country.String(),
		CountryCode: strings.ToUpper(r.CountryCode.String()),
		Codec:       r.Codec.String(),
	}

	if r.Bitrate.set {
		if bitrateMin > 0 && r.Bitrate.v < bitrateMin {
			return station.Station{}, false
		}
		b := r.Bitrate.v
		s.Bitrate = &b
	}

	return s, true
}

func streamURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return raw
}

func splitTags(csv string) []string {
	if csv == "" {
		return nil
	}
	var tags []string
	seen := make(map[string]struct{})
	for _, t := range strings.Split(csv, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, t)
	}
	return tags
}

// flexString accepts strings and numbers; anything else reads as absent.
type flexString struct {
	v string
}

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		f.v = strings.TrimSpace(s)
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		f.v = string(b)
	}
	return nil
}

func (f flexString) String() string {
	return f.v
}

// flexInt accepts numbers, numeric strings and booleans (true reads as 1).
type flexInt struct {
	v   int
	set bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch s {
	case "", "null":
		return nil
	case "true":
		f.v, f.set = 1, true
		return nil
	case "false":
		f.v, f.set = 0, true
		return nil
	}

	s = strings.TrimSpace(strings.Trim(s, `"`))
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	f.v, f.set = int(n), true
	return nil
}
