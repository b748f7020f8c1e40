package bom

import (
	"errors"
	"fmt"
	"maps"
	"reflect"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used for parts declared without a currency.
const DefaultCurrency = "US$"

var (
	// ErrUnknownPart is returned when a usage is recorded for a part that was never declared.
	ErrUnknownPart = errors.New("unknown part")
	// ErrInvalidPart is returned when a part declaration is malformed.
	ErrInvalidPart = errors.New("invalid part")
)

// Part is the declaration of a named, costed component.
type Part struct {
	Name     string
	UnitCost decimal.Decimal
	Currency string
	// Fields holds free-form metadata such as a supplier link. Report
	// headers select which fields are rendered.
	Fields map[string]any
}

// Priced reports whether the part carries a non-zero unit cost.
func (p Part) Priced() bool {
	return !p.UnitCost.IsZero()
}

// Field returns the named metadata value, or nil.
func (p Part) Field(name string) any {
	if p.Fields == nil {
		return nil
	}
	return p.Fields[name]
}

func (p Part) validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidPart)
	}
	if p.UnitCost.IsNegative() {
		return fmt.Errorf("%w: %q has negative unit cost %s", ErrInvalidPart, p.Name, p.UnitCost)
	}
	return nil
}

func (p Part) clone() Part {
	c := p
	if p.Fields != nil {
		c.Fields = maps.Clone(p.Fields)
	}
	return c
}

func (p Part) equal(o Part) bool {
	return p.Name == o.Name &&
		p.UnitCost.Equal(o.UnitCost) &&
		p.Currency == o.Currency &&
		reflect.DeepEqual(p.Fields, o.Fields)
}
