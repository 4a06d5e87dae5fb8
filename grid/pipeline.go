package grid

import (
	"cmp"
	"reflect"
	"slices"
	"strings"

	"github.com/hemolink/retable"
)

// derived caches the filtered and sorted record indices
// for the query, sort and data generation they were computed for.
type derived struct {
	valid      bool
	query      string
	sort       SortSpec
	sorted     bool
	generation int
	indices    []int
}

// indices returns the indices into the records that pass
// the query filter, in sort order.
func (g *Grid[T]) indices() []int {
	d := &g.derived
	sortSpec, sorted := SortSpec{}, g.sort != nil
	if sorted {
		sortSpec = *g.sort
	}
	if d.valid && d.query == g.query && d.sorted == sorted && d.sort == sortSpec && d.generation == g.generation {
		return d.indices
	}
	indices := g.filter()
	if sorted {
		g.sortIndices(indices, sortSpec)
	}
	*d = derived{
		valid:      true,
		query:      g.query,
		sort:       sortSpec,
		sorted:     sorted,
		generation: g.generation,
		indices:    indices,
	}
	return indices
}

// filter returns the indices of all records where at least one
// field contains the query case-insensitively.
func (g *Grid[T]) filter() []int {
	indices := make([]int, 0, len(g.data))
	if g.query == "" {
		for i := range g.data {
			indices = append(indices, i)
		}
		return indices
	}
	query := strings.ToLower(g.query)
	numCols := len(g.records.Columns())
	for row := range g.data {
		if g.rowMatches(row, numCols, query) {
			indices = append(indices, row)
		}
	}
	return indices
}

func (g *Grid[T]) rowMatches(row, numCols int, query string) bool {
	for col := 0; col < numCols; col++ {
		if strings.Contains(strings.ToLower(retable.CellString(g.records.Cell(row, col))), query) {
			return true
		}
	}
	for i := range g.config.Columns {
		if value := g.config.Columns[i].Value; value != nil {
			if strings.Contains(strings.ToLower(retable.CellString(value(g.data[row]))), query) {
				return true
			}
		}
	}
	return false
}

// sortIndices stable sorts indices by the raw value of the sort column.
func (g *Grid[T]) sortIndices(indices []int, spec SortSpec) {
	values := make([]any, len(g.data))
	for _, i := range indices {
		values[i] = g.rawValue(g.data[i], spec.Key)
	}
	slices.SortStableFunc(indices, func(a, b int) int {
		c := g.compare(values[a], values[b])
		if spec.Direction == Descending {
			return -c
		}
		return c
	})
}

// rawValue returns the value used for sorting a record by key.
func (g *Grid[T]) rawValue(record T, key string) any {
	if col := g.column(key); col != nil && col.Value != nil {
		return col.Value(record)
	}
	val, _ := retable.RecordField(record, key, g.naming)
	return val
}

// compare orders null-like values first, numbers numerically
// and everything else by locale-aware comparison of the
// string representations.
func (g *Grid[T]) compare(a, b any) int {
	aNull, bNull := retable.IsNullLike(a), retable.IsNullLike(b)
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return -1
	case bNull:
		return 1
	}
	if aNum, ok := number(a); ok {
		if bNum, ok := number(b); ok {
			return cmp.Compare(aNum, bNum)
		}
	}
	return g.collator.CompareString(retable.CellString(a), retable.CellString(b))
}

// number returns the float64 value of integer and float kinds.
func number(val any) (float64, bool) {
	v := reflect.ValueOf(val)
	for v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}

// pageIndices returns the record indices of the current page.
func (g *Grid[T]) pageIndices() []int {
	indices := g.indices()
	start := (g.page - 1) * g.pageSize
	if start >= len(indices) {
		return nil
	}
	end := min(start+g.pageSize, len(indices))
	return indices[start:end]
}

// recordKey returns the row identity of a record.
func (g *Grid[T]) recordKey(record T) string {
	val, _ := retable.RecordField(record, g.rowKey, g.naming)
	return retable.CellString(val)
}
