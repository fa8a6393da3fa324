package search

import (
	"github.com/FranksOps/airwave/internal/profile"
	"github.com/FranksOps/airwave/internal/station"
)

// Plan expands a resolved request into the ordered list of queries to try.
// Countries vary slowest and codecs fastest, so every tag and codec is tried
// in the preferred country before moving to the next one.
func Plan(req profile.Request) []station.Query {
	p := req.Profile
	plan := make([]station.Query, 0, len(p.Countries)*len(p.Tags)*len(p.Codecs))
	for _, country := range p.Countries {
		for _, tag := range p.Tags {
			for _, codec := range p.Codecs {
				plan = append(plan, station.Query{
					Tag:         tag,
					CountryCode: country,
					Codec:       codec,
					BitrateMin:  p.BitrateMin,
					Limit:       p.PerTryLimit,
				})
			}
		}
	}
	return plan
}
