package retable

import (
	"fmt"
	"reflect"
	"strings"
)

var (
	// DefaultStructFieldNaming provides the default StructFieldNaming
	// using "col" as title tag, ignores "-" titled fields,
	// and uses SpacePascalCase for untagged fields.
	DefaultStructFieldNaming = StructFieldNaming{
		Tag:      "col",
		Ignore:   "-",
		Untagged: SpacePascalCase,
	}

	// DefaultStructFieldNamingIgnoreUntagged provides the default StructFieldNaming
	// using "col" as title tag, ignores "-" titled as well as untitled fields.
	DefaultStructFieldNamingIgnoreUntagged = StructFieldNaming{
		Tag:      "col",
		Ignore:   "-",
		Untagged: UseTitle("-"),
	}
)

// StructFieldNaming defines how struct fields
// are mapped to column titles as used by View.
//
// nil is a valid value for *StructFieldNaming
// and is equal to the zero value
// which will use all exported struct fields
// with their field name as column title.
type StructFieldNaming struct {
	// Tag is the struct field tag to be used as column title.
	// If Tag is empty, then every struct field will be treated as untagged.
	Tag string
	// Ignore will result in no column
	// for fields with that title
	Ignore string
	// Untagged will be called with the struct field name to
	// return a title in case the struct field has no tag named Tag.
	// If Untagged is nil, then the struct field name will be used.
	Untagged func(fieldName string) (column string)
}

// String implements the fmt.Stringer interface for StructFieldNaming.
func (n *StructFieldNaming) String() string {
	if n == nil {
		return `StructFieldNaming{Tag: "", Ignore: ""}`
	}
	return fmt.Sprintf("StructFieldNaming{Tag: %#v, Ignore: %#v}", n.Tag, n.Ignore)
}

// StructFieldColumn returns the column title for a struct field.
func (n *StructFieldNaming) StructFieldColumn(structField reflect.StructField) string {
	if n == nil {
		return structField.Name
	}
	if n.Tag != "" {
		if tag, ok := structField.Tag.Lookup(n.Tag); ok {
			if i := strings.IndexByte(tag, ','); i != -1 {
				tag = tag[:i]
			}
			if tag != "" {
				return tag
			}
		}
	}
	if n.Untagged == nil {
		return structField.Name
	}
	return n.Untagged(structField.Name)
}

// IsIgnored returns true if column is the Ignore title.
func (n *StructFieldNaming) IsIgnored(column string) bool {
	return n != nil && n.Ignore != "" && column == n.Ignore
}

// Columns returns the column titles for the exported
// fields of strct which can be a struct, a pointer to a struct
// or a reflect.Type of a struct.
func (n *StructFieldNaming) Columns(strct any) []string {
	var strctType reflect.Type
	if t, ok := strct.(reflect.Type); ok {
		strctType = t
	} else {
		strctType = reflect.TypeOf(strct)
	}
	for strctType.Kind() == reflect.Pointer {
		strctType = strctType.Elem()
	}
	columns, _ := n.columnsAndIndices(strctType)
	return columns
}

// columnsAndIndices returns the titles of the non ignored
// fields of strctType together with their index
// into the slice returned by StructFieldValues.
func (n *StructFieldNaming) columnsAndIndices(strctType reflect.Type) (columns []string, indices []int) {
	fields := StructFieldTypes(strctType)
	columns = make([]string, 0, len(fields))
	indices = make([]int, 0, len(fields))
	for i, field := range fields {
		column := n.StructFieldColumn(field)
		if n.IsIgnored(column) {
			continue
		}
		columns = append(columns, column)
		indices = append(indices, i)
	}
	return columns, indices
}

// ColumnStructFieldValue returns the value of the
// struct field with the column title or an invalid
// reflect.Value if there is no such field.
func (n *StructFieldNaming) ColumnStructFieldValue(strct reflect.Value, column string) reflect.Value {
	for strct.Kind() == reflect.Pointer {
		if strct.IsNil() {
			return reflect.Value{}
		}
		strct = strct.Elem()
	}
	fields := StructFieldTypes(strct.Type())
	for i, field := range fields {
		if n.StructFieldColumn(field) == column {
			return StructFieldValues(strct)[i]
		}
	}
	return reflect.Value{}
}
