package search

import "github.com/FranksOps/airwave/internal/station"

// Collector accumulates unique stations in discovery order. The first
// occurrence of an ID wins. It is not safe for concurrent use.
type Collector struct {
	limit    int
	seen     map[string]struct{}
	stations []station.Station
}

// NewCollector returns a collector that reports Done once limit unique
// stations are held.
func NewCollector(limit int) *Collector {
	return &Collector{
		limit: limit,
		seen:  make(map[string]struct{}),
	}
}

// Add merges stations and returns how many were newly accepted. Stations
// without an ID are dropped.
func (c *Collector) Add(stations ...station.Station) int {
	added := 0
	for _, s := range stations {
		if s.ID == "" {
			continue
		}
		if _, dup := c.seen[s.ID]; dup {
			continue
		}
		c.seen[s.ID] = struct{}{}
		c.stations = append(c.stations, s)
		added++
	}
	return added
}

// Len returns the number of unique stations held.
func (c *Collector) Len() int {
	return len(c.stations)
}

// Done reports whether the limit has been reached.
func (c *Collector) Done() bool {
	return len(c.stations) >= c.limit
}

// Stations returns at most limit stations in discovery order.
func (c *Collector) Stations() []station.Station {
	n := len(c.stations)
	if c.limit >= 0 && n > c.limit {
		n = c.limit
	}
	out := make([]station.Station, n)
	copy(out, c.stations[:n])
	return out
}
