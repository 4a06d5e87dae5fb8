package retable

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
)

var _ View = new(RecordsView[map[string]any])

// RecordsView is a View of a slice of records.
//
// A record is either a struct (or pointer to a struct)
// whose exported fields are the columns named by a StructFieldNaming,
// or a map with string keys whose keys are the columns.
// For map records the columns are the sorted union
// of the keys of all records.
type RecordsView[T any] struct {
	title   string
	columns []string
	naming  *StructFieldNaming
	records []T

	// struct records
	indices []int // into StructFieldValues

	cachedRow    int
	cachedValues []reflect.Value
}

// NewRecordsView returns a View of records.
// naming is only used for struct records and may be nil.
func NewRecordsView[T any](title string, records []T, naming *StructFieldNaming) *RecordsView[T] {
	view := &RecordsView[T]{
		title:     title,
		naming:    naming,
		records:   records,
		cachedRow: -1,
	}
	recordType := reflect.TypeFor[T]()
	for recordType.Kind() == reflect.Pointer {
		recordType = recordType.Elem()
	}
	switch {
	case recordType.Kind() == reflect.Struct:
		view.columns, view.indices = naming.columnsAndIndices(recordType)
	default:
		keys := make(map[string]struct{})
		for _, record := range records {
			for _, key := range mapKeys(reflect.ValueOf(record)) {
				keys[key] = struct{}{}
			}
		}
		view.columns = make([]string, 0, len(keys))
		for key := range keys {
			view.columns = append(view.columns, key)
		}
		sort.Strings(view.columns)
	}
	return view
}

func (view *RecordsView[T]) Title() string     { return view.title }
func (view *RecordsView[T]) Columns() []string { return view.columns }
func (view *RecordsView[T]) NumRows() int      { return len(view.records) }

// Record returns the record at row.
func (view *RecordsView[T]) Record(row int) (record T, ok bool) {
	if row < 0 || row >= len(view.records) {
		return record, false
	}
	return view.records[row], true
}

func (view *RecordsView[T]) Cell(row, col int) any {
	if row < 0 || col < 0 || row >= len(view.records) || col >= len(view.columns) {
		return nil
	}
	if view.indices == nil {
		val, _ := RecordField(view.records[row], view.columns[col], view.naming)
		return val
	}
	if row != view.cachedRow {
		view.cachedRow = row
		view.cachedValues = nil
		strct := reflect.ValueOf(view.records[row])
		for strct.Kind() == reflect.Pointer && !strct.IsNil() {
			strct = strct.Elem()
		}
		if strct.Kind() == reflect.Struct {
			view.cachedValues = StructFieldValues(strct)
		}
	}
	if view.cachedValues == nil {
		return nil
	}
	return interfaceOrNil(view.cachedValues[view.indices[col]])
}

// RecordFields returns the column keys and values of a record.
// Map records return their keys in sorted order,
// struct records return their exported fields named by naming.
// Any other kind of record has no fields.
func RecordFields(record any, naming *StructFieldNaming) (keys []string, values []any) {
	v := reflect.ValueOf(record)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map:
		keys = mapKeys(v)
		values = make([]any, len(keys))
		for i, key := range keys {
			values[i] = interfaceOrNil(v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key())))
		}
		return keys, values
	case reflect.Struct:
		columns, indices := naming.columnsAndIndices(v.Type())
		fields := StructFieldValues(v)
		values = make([]any, len(indices))
		for i, index := range indices {
			values[i] = interfaceOrNil(fields[index])
		}
		return columns, values
	}
	return nil, nil
}

// RecordField returns the value of the field with key of a record.
func RecordField(record any, key string, naming *StructFieldNaming) (value any, ok bool) {
	v := reflect.ValueOf(record)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		val := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
		if !val.IsValid() {
			return nil, false
		}
		return interfaceOrNil(val), true
	case reflect.Struct:
		if naming.IsIgnored(key) {
			return nil, false
		}
		val := naming.ColumnStructFieldValue(v, key)
		if !val.IsValid() {
			return nil, false
		}
		return interfaceOrNil(val), true
	}
	return nil, false
}

// RecordsFromView converts every row of view
// to a map from column key to cell value.
func RecordsFromView(view View) []map[string]any {
	columns := view.Columns()
	records := make([]map[string]any, view.NumRows())
	for row := range records {
		record := make(map[string]any, len(columns))
		for col, key := range columns {
			if key == "" {
				key = fmt.Sprintf("column%d", col+1)
			}
			record[key] = view.Cell(row, col)
		}
		records[row] = record
	}
	return records
}

func mapKeys(m reflect.Value) []string {
	for m.Kind() == reflect.Pointer || m.Kind() == reflect.Interface {
		if m.IsNil() {
			return nil
		}
		m = m.Elem()
	}
	if m.Kind() != reflect.Map || m.Type().Key().Kind() != reflect.String {
		return nil
	}
	keys := make([]string, 0, m.Len())
	for _, k := range m.MapKeys() {
		keys = append(keys, k.String())
	}
	slices.Sort(keys)
	return keys
}

func interfaceOrNil(v reflect.Value) any {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	return v.Interface()
}
