package bom

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type entry struct {
	part  Part
	count int
}

// Registry maps part names to their declaration and usage count.
// It is not safe for concurrent use; an assembly pass is single-threaded.
type Registry struct {
	entries         map[string]*entry
	defaultCurrency string
	log             *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for redeclaration warnings.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithDefaultCurrency overrides DefaultCurrency for parts declared without one.
func WithDefaultCurrency(c string) Option {
	return func(r *Registry) {
		if c != "" {
			r.defaultCurrency = c
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		entries:         make(map[string]*entry),
		defaultCurrency: DefaultCurrency,
		log:             zap.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Register declares p. Declaring a name again overwrites the previous
// declaration and keeps its usage count.
func (r *Registry) Register(p Part) error {
	if err := p.validate(); err != nil {
		return err
	}
	p = p.clone()
	if p.Currency == "" {
		p.Currency = r.defaultCurrency
	}

	if e, ok := r.entries[p.Name]; ok {
		if !e.part.equal(p) {
			r.log.Warn("part redeclared, overwriting",
				zap.String("part", p.Name),
				zap.Stringer("old_cost", e.part.UnitCost),
				zap.Stringer("new_cost", p.UnitCost),
				zap.String("old_currency", e.part.Currency),
				zap.String("new_currency", p.Currency),
			)
		}
		e.part = p
		return nil
	}

	r.entries[p.Name] = &entry{part: p}
	r.log.Debug("part registered",
		zap.String("part", p.Name),
		zap.Stringer("unit_cost", p.UnitCost),
		zap.String("currency", p.Currency),
	)
	return nil
}

// Apply registers every part in order. It stops at the first invalid part.
func (r *Registry) Apply(parts []Part) error {
	for _, p := range parts {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// Use records one usage of the named part.
func (r *Registry) Use(name string) error {
	e, ok := r.entries[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPart, name)
	}
	e.count++
	return nil
}

// Count returns the usage count of the named part, or 0 if it is unknown.
func (r *Registry) Count(name string) int {
	if e, ok := r.entries[name]; ok {
		return e.count
	}
	return 0
}

// Lookup returns the declaration of the named part.
func (r *Registry) Lookup(name string) (Part, bool) {
	e, ok := r.entries[name]
	if !ok {
		return Part{}, false
	}
	return e.part.clone(), true
}

// Len returns the number of declared parts.
func (r *Registry) Len() int {
	return len(r.entries)
}

// DefaultCurrency returns the currency given to parts declared without one.
func (r *Registry) DefaultCurrency() string {
	return r.defaultCurrency
}

// Reset zeroes every usage count. Declarations are kept.
func (r *Registry) Reset() {
	for _, e := range r.entries {
		e.count = 0
	}
}

// Row is one line of a bill of materials.
type Row struct {
	Part
	Quantity int
	Total    decimal.Decimal
}

// Total is the summed cost of all priced rows in one currency.
type Total struct {
	Currency string
	Amount   decimal.Decimal
}

// Summary is a read-only snapshot of a registry.
type Summary struct {
	Rows   []Row
	Totals []Total
}

// Summarize returns a row for every part used at least once, sorted by
// currency and then name. Totals are computed per currency; unpriced parts
// are listed but contribute to no total.
func (r *Registry) Summarize() Summary {
	var s Summary
	for _, e := range r.entries {
		if e.count == 0 {
			continue
		}
		s.Rows = append(s.Rows, Row{
			Part:     e.part.clone(),
			Quantity: e.count,
			Total:    e.part.UnitCost.Mul(decimal.NewFromInt(int64(e.count))),
		})
	}
	sort.Slice(s.Rows, func(i, j int) bool {
		if s.Rows[i].Currency != s.Rows[j].Currency {
			return s.Rows[i].Currency < s.Rows[j].Currency
		}
		return s.Rows[i].Name < s.Rows[j].Name
	})

	// Rows are already grouped by currency.
	for _, row := range s.Rows {
		if !row.Priced() {
			continue
		}
		n := len(s.Totals)
		if n > 0 && s.Totals[n-1].Currency == row.Currency {
			s.Totals[n-1].Amount = s.Totals[n-1].Amount.Add(row.Total)
			continue
		}
		s.Totals = append(s.Totals, Total{Currency: row.Currency, Amount: row.Total})
	}
	return s
}

// TotalFor returns the total for currency and whether one exists.
func (s Summary) TotalFor(currency string) (decimal.Decimal, bool) {
	for _, t := range s.Totals {
		if t.Currency == currency {
			return t.Amount, true
		}
	}
	return decimal.Zero, false
}

// Quantity returns the quantity reported for the named part, or 0.
func (s Summary) Quantity(name string) int {
	for _, row := range s.Rows {
		if row.Name == name {
			return row.Quantity
		}
	}
	return 0
}

// Names returns the declared part names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge declares every part of src in r, following the overwrite policy of
// Register, and adds src's usage counts to r's.
func (r *Registry) Merge(src *Registry) error {
	for _, name := range src.Names() {
		e := src.entries[name]
		if err := r.Register(e.part); err != nil {
			return err
		}
		r.entries[name].count += e.count
	}
	return nil
}
