package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a profile catalog.
type File struct {
	Default  string    `yaml:"default"`
	Profiles []Profile `yaml:"profiles"`
}

// LoadFile reads a YAML catalog and merges it over the built-in profiles.
// Entries sharing an ID with a built-in profile replace it.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML catalog data and merges it over the built-in profiles.
func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("profile: decode catalog: %w", err)
	}

	merged := make(map[string]Profile)
	var order []string
	for _, p := range append(Builtin(), f.Profiles...) {
		if _, seen := merged[p.ID]; !seen {
			order = append(order, p.ID)
		}
		merged[p.ID] = p
	}

	profiles := make([]Profile, 0, len(order))
	for _, id := range order {
		profiles = append(profiles, merged[id])
	}

	defaultID := f.Default
	if defaultID == "" {
		defaultID = DefaultID
	}
	return NewCatalog(defaultID, profiles...)
}
