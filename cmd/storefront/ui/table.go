package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column describes one table column. Amounts and counts sit flush right so
// their digits line up.
type Column struct {
	Title string
	Align lipgloss.Position
	Max   int // cells wider than Max are truncated; zero means no limit
}

// Text is a left-aligned column.
func Text(title string) Column { return Column{Title: title, Align: lipgloss.Left} }

// Amount is a right-aligned column for prices, quantities and subtotals.
func Amount(title string) Column { return Column{Title: title, Align: lipgloss.Right} }

// Table renders product and cart rows. Selected, when in range, highlights
// one row.
type Table struct {
	Title    string
	Columns  []Column
	Selected int
	rows     [][]string
}

// NewTable returns an empty table with nothing selected.
func NewTable(title string, cols ...Column) *Table {
	return &Table{Title: title, Columns: cols, Selected: -1}
}

// AddRow appends a row. Missing cells render blank and extra cells are
// ignored.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.Columns))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
			if m := t.Columns[i].Max; m > 0 {
				row[i] = truncate(row[i], m)
			}
		}
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// View renders the table, or "" when it has no rows.
func (t *Table) View(styles Styles) string {
	if len(t.rows) == 0 {
		return ""
	}

	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = lipgloss.Width(c.Title)
		for _, row := range t.rows {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	titles := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		titles[i] = c.Title
	}
	sb.WriteString(t.line(styles.Bold, titles, widths))

	rule := len(widths) - 1
	for _, w := range widths {
		rule += w + 2
	}
	sb.WriteString(styles.Muted.Render(strings.Repeat("─", rule)))
	sb.WriteString("\n")

	for r, row := range t.rows {
		style := styles.Body
		if r == t.Selected {
			style = styles.Selected
		}
		sb.WriteString(t.line(style, row, widths))
	}
	return sb.String()
}

func (t *Table) line(style lipgloss.Style, cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = style.
			Padding(0, 1).
			Width(widths[i] + 2).
			Align(t.Columns[i].Align).
			Render(cell)
	}
	return strings.Join(parts, " ") + "\n"
}
