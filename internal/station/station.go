package station

import (
	"encoding/json"
	"fmt"
	"time"
)

// MaxErrors caps the number of diagnostics carried by a Result.
const MaxErrors = 8

// Station is a normalized radio station returned by a directory mirror.
type Station struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	StreamURL   string   `json:"streamUrl"`
	Favicon     string   `json:"favicon,omitempty"`
	Homepage    string   `json:"homepage,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Country     string   `json:"country,omitempty"`
	CountryCode string   `json:"countryCode,omitempty"`
	Codec       string   `json:"codec,omitempty"`
	Bitrate     *int     `json:"bitrate,omitempty"`
}

// Query is one concrete set of search parameters sent to a mirror.
// An empty CountryCode means no country filter.
type Query struct {
	Tag         string `json:"tag"`
	CountryCode string `json:"countrycode"`
	Codec       string `json:"codec"`
	BitrateMin  int    `json:"bitrateMin"`
	Limit       int    `json:"limit"`
}

// String renders the query as tag/country/codec.
func (q Query) String() string {
	return q.Tag + "/" + q.CountryCode + "/" + q.Codec
}

// Outcome represents the result of executing a single Query against a single mirror.
type Outcome struct {
	Mirror     string
	Query      Query
	Stations   []Station
	StatusCode int
	Duration   time.Duration
	Error      string // non-empty if the attempt failed
}

// OK reports whether the attempt succeeded.
func (o *Outcome) OK() bool {
	return o != nil && o.Error == ""
}

// Diagnostic formats a failed outcome as "<mirror> :: <tag>/<country>/<codec> => <reason>".
func (o *Outcome) Diagnostic() string {
	return fmt.Sprintf("%s :: %s => %s", o.Mirror, o.Query, o.Error)
}

// Result is the outcome of a whole search invocation.
type Result struct {
	ProfileID string    `json:"profileId"`
	Label     string    `json:"label"`
	Count     int       `json:"count"`
	Stations  []Station `json:"stations"`
	Errors    []string  `json:"errors"`
}

// MarshalJSON keeps stations and errors encoded as arrays even when empty.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	out := alias(r)
	if out.Stations == nil {
		out.Stations = []Station{}
	}
	if out.Errors == nil {
		out.Errors = []string{}
	}
	return json.Marshal(out)
}
