package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/chazu/cadbom/pkg/bom"
)

// Delimited writes s as delimiter-separated values, tab-separated unless
// opts.Comma says otherwise. The cells are the same as those of Text.
func Delimited(w io.Writer, s bom.Summary, opts Options) error {
	t := buildTable(s, opts.Headers)

	cw := csv.NewWriter(w)
	if opts.Comma != 0 {
		cw.Comma = opts.Comma
	} else {
		cw.Comma = '\t'
	}
	if err := cw.Write(t.header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := cw.WriteAll(t.rows); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}
	return nil
}
