// Package citymatch resolves free-text city input against a fixed catalog of
// canonical city names.
package citymatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrBlankCity = errors.New("catalog contains a blank city name")

// Catalog is an ordered, read-only list of canonical city names. Order matters:
// ties during resolution go to the entry that comes first.
type Catalog struct {
	names []string
}

// NewCatalog copies names into a new Catalog.
func NewCatalog(names []string) *Catalog {
	c := &Catalog{names: make([]string, len(names))}
	copy(c.names, names)
	return c
}

// LoadCatalog reads a JSON array of city names from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read city catalog: %w", err)
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("could not parse city catalog %s: %w", path, err)
	}
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w at index %d", ErrBlankCity, i)
		}
	}
	return &Catalog{names: names}, nil
}

// Len returns the number of cities in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// Names returns a copy of the catalog entries in catalog order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}
