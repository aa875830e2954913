package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed extra_services.yaml
var defaultExtraServices []byte

// ExtraService is an add-on offered with a main service. It is seed data, not a stored document.
type ExtraService struct {
	ID    string  `yaml:"id" json:"id"`
	Name  string  `yaml:"name" json:"name"`
	Price float64 `yaml:"price" json:"price"`
}

type file struct {
	ExtraServices []ExtraService `yaml:"extraServices"`
}

// Catalog holds the extra services loaded at startup.
type Catalog struct {
	extras []ExtraService
	byID   map[string]ExtraService
}

// Load parses the embedded defaults, or the file at path when it is set.
func Load(path string) (*Catalog, error) {
	raw := defaultExtraServices
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read extra services: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

// Parse decodes a YAML extra services document.
func Parse(raw []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse extra services: %w", err)
	}
	c := &Catalog{byID: make(map[string]ExtraService, len(f.ExtraServices))}
	for _, e := range f.ExtraServices {
		e.ID = strings.TrimSpace(e.ID)
		if e.ID == "" || strings.TrimSpace(e.Name) == "" {
			return nil, errors.New("parse extra services: id and name are required")
		}
		if e.Price < 0 {
			return nil, fmt.Errorf("parse extra services: %s has a negative price", e.ID)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("parse extra services: duplicate id %s", e.ID)
		}
		c.byID[e.ID] = e
		c.extras = append(c.extras, e)
	}
	return c, nil
}

// ExtraServices returns a copy in file order.
func (c *Catalog) ExtraServices() []ExtraService {
	out := make([]ExtraService, len(c.extras))
	copy(out, c.extras)
	return out
}

func (c *Catalog) ExtraService(id string) (ExtraService, bool) {
	e, ok := c.byID[id]
	return e, ok
}
