// Package grid implements an interactive view onto an in-memory
// collection of records: free-text search, tri-state single column
// sorting, pagination, row selection and per-row actions.
//
// A Grid owns its view state (query, sort, page, page size, selection)
// and derives the visible page from the caller owned records whenever
// that state or the records change. It never mutates the records and
// performs no I/O; the only side effects are the configured callbacks.
//
// A Grid is not safe for concurrent use.
package grid

import (
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/hemolink/retable"
)

// DefaultRowKey is the record field used as row identity
// if Config.RowKey is empty.
const DefaultRowKey = "id"

// Column describes a column of the grid.
type Column[T any] struct {
	// Key addresses the record field shown in the column.
	Key string
	// Title is the header text, Key is used if empty.
	Title string
	// Sortable enables toggling the sort order via the header.
	Sortable bool
	// Render returns the value displayed for a record.
	// It does not affect searching or sorting.
	Render func(record T) any
	// Value computes the raw value of a column that has
	// no field in the record. If set, it is used for
	// searching and sorting instead of the field value.
	Value func(record T) any
	// ClassName is applied to the header cell.
	ClassName string
	// CellClassName is applied to every body cell.
	CellClassName string
}

// HeaderTitle returns Title or Key if Title is empty.
func (c *Column[T]) HeaderTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Key
}

// Action is a button shown for every row.
type Action[T any] struct {
	Label     string
	Icon      string
	ClassName string
	// OnClick is called with the record of the row.
	// Its result is neither awaited nor handled.
	OnClick func(record T)
}

// Config configures a Grid.
type Config[T any] struct {
	Title   string
	Columns []Column[T]
	Data    []T

	// PageSizeOptions must not be empty and only contain positive values.
	PageSizeOptions []int
	// InitialPageSize must be one of PageSizeOptions.
	// The first option is used if zero.
	InitialPageSize int

	// RowKey is the record field that identifies a row.
	// Defaults to DefaultRowKey.
	RowKey string

	Selectable bool
	// OnSelectionChange is called with all selected keys
	// after every change of the selection.
	OnSelectionChange func(keys []string)

	// OnRowClick is called with the record of an activated row.
	OnRowClick func(record T)

	Actions []Action[T]

	// Naming maps struct record fields to keys,
	// retable.DefaultStructFieldNaming is used if nil.
	Naming *retable.StructFieldNaming

	// Locale is a BCP 47 language tag used for comparing
	// strings when sorting. The root locale is used if empty.
	Locale string
}

// Grid is the state of a tabular data viewer.
type Grid[T any] struct {
	config   Config[T]
	naming   *retable.StructFieldNaming
	rowKey   string
	collator *collate.Collator

	data       []T
	records    *retable.RecordsView[T]
	generation int

	query    string
	sort     *SortSpec
	page     int
	pageSize int

	selected  map[string]struct{}
	selection []string // insertion order of selected

	derived derived
}

// New returns a Grid with empty query, first page,
// initial page size, no sort and empty selection.
func New[T any](config Config[T]) (*Grid[T], error) {
	if len(config.PageSizeOptions) == 0 {
		return nil, ErrNoPageSizes
	}
	for _, size := range config.PageSizeOptions {
		if size <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
		}
	}
	pageSize := config.PageSizeOptions[0]
	if config.InitialPageSize != 0 {
		if !slices.Contains(config.PageSizeOptions, config.InitialPageSize) {
			return nil, fmt.Errorf("%w: initial page size %d not in %v", ErrInvalidPageSize, config.InitialPageSize, config.PageSizeOptions)
		}
		pageSize = config.InitialPageSize
	}
	naming := config.Naming
	if naming == nil {
		naming = &retable.DefaultStructFieldNaming
	}
	rowKey := config.RowKey
	if rowKey == "" {
		rowKey = DefaultRowKey
	}
	g := &Grid[T]{
		config:   config,
		naming:   naming,
		rowKey:   rowKey,
		collator: collate.New(language.Make(config.Locale)),
		page:     1,
		pageSize: pageSize,
		selected: make(map[string]struct{}),
	}
	g.setData(config.Data)
	return g, nil
}

// Title returns the configured title.
func (g *Grid[T]) Title() string { return g.config.Title }

// Columns returns the configured columns.
func (g *Grid[T]) Columns() []Column[T] { return g.config.Columns }

// Actions returns the configured row actions.
func (g *Grid[T]) Actions() []Action[T] { return g.config.Actions }

// Selectable returns if rows can be selected.
func (g *Grid[T]) Selectable() bool { return g.config.Selectable }

// PageSizeOptions returns the page sizes that can be chosen.
func (g *Grid[T]) PageSizeOptions() []int { return g.config.PageSizeOptions }

// RowKey returns the record field used as row identity.
func (g *Grid[T]) RowKey() string { return g.rowKey }

// Data returns the records as passed to New or SetData.
func (g *Grid[T]) Data() []T { return g.data }

// SetData replaces the records of the grid.
// Query, sort, page size and selection are kept.
// The current page is clamped to the new number of pages.
func (g *Grid[T]) SetData(data []T) {
	g.setData(data)
	g.clampPage()
}

func (g *Grid[T]) setData(data []T) {
	g.data = data
	g.records = retable.NewRecordsView(g.config.Title, data, g.naming)
	g.generation++
}

// SetColumns replaces the columns of the grid.
// Query, page size and selection are kept.
// The sort is cleared if its column is no longer sortable.
func (g *Grid[T]) SetColumns(columns []Column[T]) {
	g.config.Columns = columns
	g.generation++
	if g.sort != nil {
		g.SetSort(g.sort)
	}
	g.clampPage()
}

// ColSpan returns the number of table columns
// including the selection and the action column.
func (g *Grid[T]) ColSpan() int {
	n := len(g.config.Columns)
	if g.config.Selectable {
		n++
	}
	if len(g.config.Actions) > 0 {
		n++
	}
	return max(n, 1)
}

// ClickRow calls OnRowClick with the record
// of the row at index of the current page.
func (g *Grid[T]) ClickRow(index int) error {
	record, err := g.pageRecord(index)
	if err != nil {
		return err
	}
	if g.config.OnRowClick != nil {
		g.config.OnRowClick(record)
	}
	return nil
}

// InvokeAction calls the OnClick callback of the action
// with label for the row at index of the current page.
func (g *Grid[T]) InvokeAction(label string, index int) error {
	i := slices.IndexFunc(g.config.Actions, func(a Action[T]) bool { return a.Label == label })
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownAction, label)
	}
	record, err := g.pageRecord(index)
	if err != nil {
		return err
	}
	if onClick := g.config.Actions[i].OnClick; onClick != nil {
		onClick(record)
	}
	return nil
}

func (g *Grid[T]) pageRecord(index int) (record T, err error) {
	indices := g.pageIndices()
	if index < 0 || index >= len(indices) {
		return record, fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, index, len(indices))
	}
	return g.data[indices[index]], nil
}

func (g *Grid[T]) column(key string) *Column[T] {
	for i := range g.config.Columns {
		if g.config.Columns[i].Key == key {
			return &g.config.Columns[i]
		}
	}
	return nil
}
