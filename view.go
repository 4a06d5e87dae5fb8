// Package retable provides views of tabular records.
//
// A View exposes a table as a title, an ordered list of column keys
// and a number of rows whose cells are addressed by row and column index.
// Decorating views like FilteredView, IndexedView and ViewWithTitle
// change the window onto a source View without copying cell values.
package retable

// View is the read only interface to a table.
type View interface {
	// Title of the table, may be empty.
	Title() string

	// Columns returns the column keys of the table.
	Columns() []string

	// NumRows returns the number of rows of the table.
	NumRows() int

	// Cell returns the value of the cell at row and col
	// or nil if row or col is out of bounds.
	Cell(row, col int) any
}

// ColumnIndex returns the index of the column
// with the passed key or -1 if view has no such column.
func ColumnIndex(view View, key string) int {
	for i, col := range view.Columns() {
		if col == key {
			return i
		}
	}
	return -1
}

// RowValues returns all cell values of a row.
func RowValues(view View, row int) []any {
	vals := make([]any, len(view.Columns()))
	for col := range vals {
		vals[col] = view.Cell(row, col)
	}
	return vals
}
