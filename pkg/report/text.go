package report

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chazu/cadbom/pkg/bom"
	"github.com/mattn/go-runewidth"
)

const columnSep = " | "

var headerStyle = lipgloss.NewStyle().Bold(true)

// Text writes s as a column-aligned table. Columns are left-justified by
// terminal display width, so currency symbols such as € line up.
func Text(w io.Writer, s bom.Summary, opts Options) error {
	t := buildTable(s, opts.Headers)

	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, c := range row {
			if cw := runewidth.StringWidth(c); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	var b strings.Builder
	header := formatLine(t.header, widths)
	if opts.Styled {
		header = headerStyle.Render(header)
	}
	b.WriteString(header)
	b.WriteByte('\n')

	rule := make([]string, len(widths))
	for i, cw := range widths {
		rule[i] = strings.Repeat("-", cw)
	}
	b.WriteString(strings.Join(rule, "-+-"))
	b.WriteByte('\n')

	for _, row := range t.rows {
		b.WriteString(formatLine(row, widths))
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// formatLine pads cells to widths. Trailing empty cells are dropped and the
// last kept cell is written as is.
func formatLine(cells []string, widths []int) string {
	last := len(cells) - 1
	for last >= 0 && cells[last] == "" {
		last--
	}
	padded := make([]string, last+1)
	for i := 0; i < last; i++ {
		padded[i] = runewidth.FillRight(cells[i], widths[i])
	}
	if last >= 0 {
		padded[last] = cells[last]
	}
	return strings.Join(padded, columnSep)
}
