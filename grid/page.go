package grid

import (
	"github.com/hemolink/retable"
)

// Row is a visible row of a Page.
type Row[T any] struct {
	// Index of the row within the page.
	Index    int
	Key      string
	Record   T
	Selected bool
	// Cells holds the display value for every column,
	// the result of Column.Render or the raw value.
	Cells []any
}

// Page is the derived state of the current page.
type Page[T any] struct {
	Number     int
	Size       int
	TotalPages int
	TotalRows  int
	// First and Last are the 1 based positions of the
	// first and last row of the page within all rows
	// passing the filter, both zero for an empty page.
	First int
	Last  int
	Rows  []Row[T]
}

// Empty returns true if the page has no rows
// and a placeholder should be shown instead.
func (p *Page[T]) Empty() bool { return len(p.Rows) == 0 }

// Page derives the current page from the records and view state.
func (g *Grid[T]) Page() *Page[T] {
	indices := g.pageIndices()
	page := &Page[T]{
		Number:     g.page,
		Size:       g.pageSize,
		TotalPages: g.TotalPages(),
		TotalRows:  g.TotalRows(),
		Rows:       make([]Row[T], len(indices)),
	}
	if len(indices) > 0 {
		page.First = (g.page-1)*g.pageSize + 1
		page.Last = page.First + len(indices) - 1
	}
	for i, index := range indices {
		record := g.data[index]
		key := g.recordKey(record)
		row := Row[T]{
			Index:    i,
			Key:      key,
			Record:   record,
			Selected: g.IsSelected(key),
			Cells:    make([]any, len(g.config.Columns)),
		}
		for c := range g.config.Columns {
			row.Cells[c] = g.displayValue(record, &g.config.Columns[c])
		}
		page.Rows[i] = row
	}
	return page
}

func (g *Grid[T]) displayValue(record T, col *Column[T]) any {
	if col.Render != nil {
		return col.Render(record)
	}
	return g.rawValue(record, col.Key)
}

// View returns a retable.View of all rows passing the filter
// in sort order with the raw values of the configured columns.
func (g *Grid[T]) View() retable.View {
	return &columnsView[T]{grid: g, indices: g.indices(), render: false}
}

// PageView returns a retable.View of the current page
// with the display values of the configured columns.
func (g *Grid[T]) PageView() retable.View {
	return &columnsView[T]{grid: g, indices: g.pageIndices(), render: true}
}

// SelectedView returns the rows of View
// whose records are selected.
func (g *Grid[T]) SelectedView() *retable.IndexedView {
	var rows []int
	for row, index := range g.indices() {
		if g.IsSelected(g.recordKey(g.data[index])) {
			rows = append(rows, row)
		}
	}
	return retable.NewIndexedView(g.View(), rows)
}

var _ retable.View = new(columnsView[any])

type columnsView[T any] struct {
	grid    *Grid[T]
	indices []int
	render  bool
}

func (v *columnsView[T]) Title() string { return v.grid.config.Title }

func (v *columnsView[T]) Columns() []string {
	cols := make([]string, len(v.grid.config.Columns))
	for i := range cols {
		cols[i] = v.grid.config.Columns[i].Key
	}
	return cols
}

func (v *columnsView[T]) NumRows() int { return len(v.indices) }

func (v *columnsView[T]) Cell(row, col int) any {
	if row < 0 || col < 0 || row >= len(v.indices) || col >= len(v.grid.config.Columns) {
		return nil
	}
	record := v.grid.data[v.indices[row]]
	column := &v.grid.config.Columns[col]
	if v.render {
		return v.grid.displayValue(record, column)
	}
	return v.grid.rawValue(record, column.Key)
}

// Titles returns the header titles of the configured columns.
func (g *Grid[T]) Titles() []string {
	titles := make([]string, len(g.config.Columns))
	for i := range g.config.Columns {
		titles[i] = g.config.Columns[i].HeaderTitle()
	}
	return titles
}
