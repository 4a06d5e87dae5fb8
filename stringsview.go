package retable

import (
	"strings"
)

var _ View = new(StringsView)

// StringsView is a View implementation that uses strings as cell values.
//
// A row within Rows can have fewer elements than Cols,
// in which case empty strings are returned for the missing cells.
type StringsView struct {
	Tit  string
	Cols []string
	Rows [][]string
}

// NewStringsView returns a StringsView with the passed columns.
// If no columns are passed then the first row is used as columns
// and removed from the data rows.
// Column names are trimmed of surrounding whitespace.
func NewStringsView(title string, rows [][]string, cols ...string) *StringsView {
	if len(cols) == 0 && len(rows) > 0 {
		cols = rows[0]
		rows = rows[1:]
	}
	for i, col := range cols {
		cols[i] = strings.TrimSpace(col)
	}
	return &StringsView{Tit: title, Cols: cols, Rows: rows}
}

func (view *StringsView) Title() string     { return view.Tit }
func (view *StringsView) Columns() []string { return view.Cols }
func (view *StringsView) NumRows() int      { return len(view.Rows) }

func (view *StringsView) Cell(row, col int) any {
	if row < 0 || col < 0 || row >= len(view.Rows) || col >= len(view.Cols) {
		return nil
	}
	if col >= len(view.Rows[row]) {
		return ""
	}
	return view.Rows[row][col]
}
