package grid

import (
	"fmt"
	"slices"
)

// Direction of a sort.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortSpec is the column key and direction the rows are sorted by.
type SortSpec struct {
	Key       string
	Direction Direction
}

// Query returns the search query.
func (g *Grid[T]) Query() string { return g.query }

// SetQuery sets the search query, an empty query disables filtering.
// The current page is clamped to the resulting number of pages.
func (g *Grid[T]) SetQuery(query string) {
	g.query = query
	g.clampPage()
}

// Sort returns the current sort or nil if unsorted.
func (g *Grid[T]) Sort() *SortSpec {
	if g.sort == nil {
		return nil
	}
	s := *g.sort
	return &s
}

// ToggleSort cycles the sort of a sortable column:
// ascending if the column is not the sort column,
// descending if it is sorted ascending, and unsorted
// if it is sorted descending. Non sortable or unknown
// columns are ignored. Returns the resulting sort.
func (g *Grid[T]) ToggleSort(key string) *SortSpec {
	col := g.column(key)
	if col == nil || !col.Sortable {
		return g.Sort()
	}
	switch {
	case g.sort == nil || g.sort.Key != key:
		g.sort = &SortSpec{Key: key, Direction: Ascending}
	case g.sort.Direction == Ascending:
		g.sort = &SortSpec{Key: key, Direction: Descending}
	default:
		g.sort = nil
	}
	return g.Sort()
}

// SetSort sets the sort directly, nil clears it.
// Keys of non sortable or unknown columns clear the sort.
func (g *Grid[T]) SetSort(spec *SortSpec) {
	if spec == nil {
		g.sort = nil
		return
	}
	if col := g.column(spec.Key); col == nil || !col.Sortable {
		g.sort = nil
		return
	}
	s := *spec
	g.sort = &s
}

// PageNumber returns the 1 based current page.
func (g *Grid[T]) PageNumber() int { return g.page }

// PageSize returns the number of rows per page.
func (g *Grid[T]) PageSize() int { return g.pageSize }

// TotalRows returns the number of rows passing the query filter.
func (g *Grid[T]) TotalRows() int { return len(g.indices()) }

// TotalPages returns the number of pages, at least 1.
func (g *Grid[T]) TotalPages() int {
	return max(1, (g.TotalRows()+g.pageSize-1)/g.pageSize)
}

// SetPage changes the current page.
func (g *Grid[T]) SetPage(page int) error {
	if page < 1 || page > g.TotalPages() {
		return fmt.Errorf("%w: %d not in [1..%d]", ErrInvalidPage, page, g.TotalPages())
	}
	g.page = page
	return nil
}

// CanPrev returns if there is a page before the current one.
func (g *Grid[T]) CanPrev() bool { return g.page > 1 }

// CanNext returns if there is a page after the current one.
func (g *Grid[T]) CanNext() bool { return g.page < g.TotalPages() }

// FirstPage navigates to page 1 unless on page 1.
func (g *Grid[T]) FirstPage() bool {
	if !g.CanPrev() {
		return false
	}
	g.page = 1
	return true
}

// PrevPage navigates to the previous page unless on page 1.
func (g *Grid[T]) PrevPage() bool {
	if !g.CanPrev() {
		return false
	}
	g.page--
	return true
}

// NextPage navigates to the next page unless on the last page.
func (g *Grid[T]) NextPage() bool {
	if !g.CanNext() {
		return false
	}
	g.page++
	return true
}

// LastPage navigates to the last page unless on the last page.
func (g *Grid[T]) LastPage() bool {
	if !g.CanNext() {
		return false
	}
	g.page = g.TotalPages()
	return true
}

// SetPageSize changes the number of rows per page
// to one of the PageSizeOptions and resets the page to 1.
func (g *Grid[T]) SetPageSize(size int) error {
	if !slices.Contains(g.config.PageSizeOptions, size) {
		return fmt.Errorf("%w: %d not in %v", ErrInvalidPageSize, size, g.config.PageSizeOptions)
	}
	g.pageSize = size
	g.page = 1
	return nil
}

func (g *Grid[T]) clampPage() {
	g.page = min(max(g.page, 1), g.TotalPages())
}
