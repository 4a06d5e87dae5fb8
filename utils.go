package retable

import (
	"fmt"
	"go/token"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// StructFieldTypes returns the exported fields of a struct type
// including the inlined fields of any anonymously embedded structs.
func StructFieldTypes(structType reflect.Type) (fields []reflect.StructField) {
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		switch {
		case field.Anonymous && field.Type.Kind() == reflect.Struct:
			fields = append(fields, StructFieldTypes(field.Type)...)
		case token.IsExported(field.Name):
			fields = append(fields, field)
		}
	}
	return fields
}

// StructFieldValues returns the reflect.Value of exported struct fields
// including the inlined fields of any anonymously embedded structs.
func StructFieldValues(structValue reflect.Value) (values []reflect.Value) {
	if structValue.Kind() == reflect.Pointer {
		structValue = structValue.Elem()
	}
	structType := structValue.Type()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		switch {
		case field.Anonymous && field.Type.Kind() == reflect.Struct:
			values = append(values, StructFieldValues(structValue.Field(i))...)
		case token.IsExported(field.Name):
			values = append(values, structValue.Field(i))
		}
	}
	return values
}

// SpacePascalCase inserts spaces before upper case
// characters within PascalCase like names.
// It also replaces underscore '_' characters with spaces.
// Usable for StructFieldNaming.Untagged
func SpacePascalCase(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	lastWasUpper := true
	lastWasSpace := true
	for _, r := range name {
		if r == '_' {
			if !lastWasSpace {
				b.WriteByte(' ')
			}
			lastWasUpper = false
			lastWasSpace = true
			continue
		}
		isUpper := unicode.IsUpper(r)
		if isUpper && !lastWasUpper && !lastWasSpace {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		lastWasUpper = isUpper
		lastWasSpace = unicode.IsSpace(r)
	}
	return strings.TrimSpace(b.String())
}

// UseTitle returns a function that
// always returns the passed columnTitle.
func UseTitle(columnTitle string) func(fieldName string) (columnTitle string) {
	return func(string) string { return columnTitle }
}

// ValueIsNil return true if passed reflect.Value
// is not valid, nil (of a type that can be nil),
// or is of type struct{}
func ValueIsNil(val reflect.Value) bool {
	if !val.IsValid() {
		return true
	}
	switch val.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return val.IsNil()
	case reflect.Struct:
		if t := val.Type(); t.NumField() == 0 && t.NumMethod() == 0 {
			// Treat a value of type struct{} like nil
			return true
		}
	}
	return false
}

// IsNullLike returns true for nil, nil pointers
// and other nil-able values that are nil,
// and for values of type struct{}.
// A nullable value implementing IsNull() bool
// is null-like if IsNull returns true.
func IsNullLike(val any) bool {
	if val == nil {
		return true
	}
	if n, ok := val.(interface{ IsNull() bool }); ok {
		return n.IsNull()
	}
	return ValueIsNil(reflect.ValueOf(val))
}

// CellString returns the string representation of a cell value.
// Null-like values are represented as empty string,
// pointers are dereferenced before formatting with fmt.Sprint.
// Floats are formatted without exponent.
func CellString(val any) string {
	if IsNullLike(val) {
		return ""
	}
	switch x := val.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case fmt.Stringer:
		return x.String()
	}
	v := reflect.ValueOf(val)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	}
	return fmt.Sprint(v.Interface())
}

// RemoveEmptyStringRows removes all rows
// that only consist of empty strings.
func RemoveEmptyStringRows(rows [][]string) [][]string {
	filtered := rows[:0]
	for _, row := range rows {
		for _, str := range row {
			if str != "" {
				filtered = append(filtered, row)
				break
			}
		}
	}
	return filtered
}

// RemoveEmptyStringColumns removes trailing columns
// that only contain empty strings and returns
// the resulting maximum number of columns.
func RemoveEmptyStringColumns(rows [][]string) (numCols int) {
	for _, row := range rows {
		for col := len(row) - 1; col >= 0; col-- {
			if row[col] != "" {
				numCols = max(numCols, col+1)
				break
			}
		}
	}
	for i, row := range rows {
		if len(row) > numCols {
			rows[i] = row[:numCols]
		}
	}
	return numCols
}

// StringColumnWidths returns the maximum rune count
// of every column of rows limited to maxCols if maxCols > 0.
func StringColumnWidths(rows [][]string, maxCols int) []int {
	var widths []int
	for _, row := range rows {
		if maxCols > 0 && len(row) > maxCols {
			row = row[:maxCols]
		}
		for col, str := range row {
			if col >= len(widths) {
				widths = append(widths, 0)
			}
			widths[col] = max(widths[col], utf8.RuneCountInString(str))
		}
	}
	return widths
}
