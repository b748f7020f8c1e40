package bom

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk layout of a part catalog:
//
//	parts:
//	  - name: M3 Nut
//	    cost: 0.05
//	    currency: R$
//	    fields:
//	      link: https://example.io/m3-nut
type catalogFile struct {
	Parts []catalogEntry `yaml:"parts"`
}

type catalogEntry struct {
	Name     string         `yaml:"name"`
	Cost     string         `yaml:"cost"`
	Currency string         `yaml:"currency"`
	Fields   map[string]any `yaml:"fields"`
}

// LoadCatalog reads a YAML part catalog from path.
func LoadCatalog(path string) ([]Part, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML part catalog.
func ParseCatalog(data []byte) ([]Part, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	parts := make([]Part, 0, len(f.Parts))
	for i, e := range f.Parts {
		p := Part{Name: e.Name, Currency: e.Currency, Fields: e.Fields}
		if e.Cost != "" {
			cost, err := decimal.NewFromString(e.Cost)
			if err != nil {
				return nil, fmt.Errorf("catalog entry %d (%q): cost: %w", i, e.Name, err)
			}
			p.UnitCost = cost
		}
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		parts = append(parts, p)
	}
	return parts, nil
}
