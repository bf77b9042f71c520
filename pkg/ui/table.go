package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableColumn describes one column of a Table
type TableColumn struct {
	Header   string
	Width    int    // minimum width
	MaxWidth int    // cells longer than this are truncated; 0 = no limit
	Align    string // "left", "right", "center"
}

// Table collects rows and renders them with a rule under the header
type Table struct {
	Columns []TableColumn
	Rows    [][]string
}

func NewTable(columns []TableColumn) *Table {
	return &Table{
		Columns: columns,
		Rows:    [][]string{},
	}
}

// AddRow adds a row; cells beyond the column count are ignored
func (t *Table) AddRow(cells []string) {
	t.Rows = append(t.Rows, cells)
}

// Render returns the table followed by a newline, or "" with no columns
func (t *Table) Render() string {
	if len(t.Columns) == 0 {
		return ""
	}

	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = padString(col.Header, col.Width, "left")
	}

	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i := range t.Columns {
			if i >= len(row) {
				continue
			}
			cells[i] = Truncate(row[i], t.Columns[i].MaxWidth)
		}
		rows[r] = cells
	}

	last := len(t.Columns) - 1
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(true).
		BorderStyle(StyleTableBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			var s lipgloss.Style
			switch {
			case row == table.HeaderRow:
				s = StyleTableHeader
			case row%2 == 0:
				s = StyleTableRow
			default:
				s = StyleTableRowAlt
			}
			if col < last {
				s = s.PaddingRight(2)
			}
			return s.Align(alignment(t.Columns[col].Align))
		})

	return tbl.Render() + "\n"
}

func alignment(align string) lipgloss.Position {
	switch align {
	case "right":
		return lipgloss.Right
	case "center":
		return lipgloss.Center
	}
	return lipgloss.Left
}

// padString pads a string to the specified width with alignment
func padString(s string, width int, align string) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}

	padding := width - w

	switch align {
	case "right":
		return strings.Repeat(" ", padding) + s
	case "center":
		left := padding / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", padding-left)
	default:
		return s + strings.Repeat(" ", padding)
	}
}

// RenderKeyValue renders "key: value" with the key highlighted
func RenderKeyValue(key, value string) string {
	return fmt.Sprintf("%s: %s", StyleAccent.Render(key), value)
}
