// Package report renders a bom.Summary as a human-readable table or as
// delimiter-separated values. Both renderings are built from the same
// cells, so they differ only in layout.
package report

import (
	"fmt"

	"github.com/chazu/cadbom/pkg/bom"
	"github.com/shopspring/decimal"
)

// BaseColumns are always present, in this order, before any extra headers.
var BaseColumns = []string{"Description", "Count", "Unit Price", "Total Price"}

// DefaultHeaders are the extra part fields rendered when none are configured.
var DefaultHeaders = []string{"link", "leftover"}

// Options controls rendering.
type Options struct {
	// Headers names the part fields rendered after the base columns.
	Headers []string
	// Comma is the field delimiter for Delimited. Zero means tab.
	Comma rune
	// Styled bolds the header row of the text table.
	Styled bool
}

// table is the shared cell grid: a header row and body rows.
type table struct {
	header []string
	rows   [][]string
}

// Money formats an amount as "<currency> <amount to two places>".
func Money(currency string, amount decimal.Decimal) string {
	return fmt.Sprintf("%s %s", currency, amount.StringFixed(2))
}

// TotalLabel is the first cell of a currency total row.
func TotalLabel(currency string) string {
	return "Total Cost, " + currency
}

func buildTable(s bom.Summary, headers []string) table {
	t := table{header: make([]string, 0, len(BaseColumns)+len(headers))}
	t.header = append(t.header, BaseColumns...)
	t.header = append(t.header, headers...)
	width := len(t.header)

	for _, row := range s.Rows {
		cells := make([]string, 0, width)
		cells = append(cells, row.Name, fmt.Sprint(row.Quantity))
		if row.Priced() {
			cells = append(cells, Money(row.Currency, row.UnitCost), Money(row.Currency, row.Total))
		} else {
			cells = append(cells, "", "")
		}
		for _, h := range headers {
			cells = append(cells, fieldString(row.Field(h)))
		}
		t.rows = append(t.rows, cells)
	}

	if len(s.Totals) > 0 {
		t.rows = append(t.rows, make([]string, width))
		for _, total := range s.Totals {
			cells := make([]string, width)
			cells[0] = TotalLabel(total.Currency)
			cells[3] = Money(total.Currency, total.Amount)
			t.rows = append(t.rows, cells)
		}
	}
	return t
}

func fieldString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
