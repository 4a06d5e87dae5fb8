package retable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpacePascalCase(t *testing.T) {
	tests := []struct {
		testName string
		name     string
		want     string
	}{
		{testName: "", name: "", want: ""},
		{testName: "HelloWorld", name: "HelloWorld", want: "Hello World"},
		{testName: "_Hello_World", name: "_Hello_World", want: "Hello World"},
		{testName: "helloWorld", name: "helloWorld", want: "hello World"},
		{testName: "helloWorld_", name: "helloWorld_", want: "hello World"},
		{testName: "ThisHasMoreSpacesForSure", name: "ThisHasMoreSpacesForSure", want: "This Has More Spaces For Sure"},
		{testName: "ThisHasMore_Spaces__ForSure", name: "ThisHasMore_Spaces__ForSure", want: "This Has More Spaces For Sure"},
	}
	for _, tt := range tests {
		t.Run(tt.testName, func(t *testing.T) {
			if got := SpacePascalCase(tt.name); got != tt.want {
				t.Errorf("SpacePascalCase() = %q, want %q", got, tt.want)
			}
		})
	}
}

type nullable struct{ null bool }

func (n nullable) IsNull() bool { return n.null }

func TestIsNullLike(t *testing.T) {
	var nilPtr *int
	var nilMap map[string]any
	zero := 0
	tests := []struct {
		name string
		val  any
		want bool
	}{
		{name: "nil", val: nil, want: true},
		{name: "nil pointer", val: nilPtr, want: true},
		{name: "nil map", val: nilMap, want: true},
		{name: "empty struct", val: struct{}{}, want: true},
		{name: "null nullable", val: nullable{null: true}, want: true},
		{name: "nullable", val: nullable{}, want: false},
		{name: "zero", val: 0, want: false},
		{name: "pointer to zero", val: &zero, want: false},
		{name: "empty string", val: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsNullLike(tt.val))
		})
	}
}

func TestCellString(t *testing.T) {
	units := 12
	var nilPtr *int
	require.Equal(t, "", CellString(nil))
	require.Equal(t, "", CellString(nilPtr))
	require.Equal(t, "12", CellString(&units))
	require.Equal(t, "O-", CellString("O-"))
	require.Equal(t, "bytes", CellString([]byte("bytes")))
	require.Equal(t, "3.5", CellString(3.5))
	require.Equal(t, "1500000", CellString(1500000.0))
	require.Equal(t, "0.00001", CellString(0.00001))
	require.Equal(t, "0.25", CellString(float32(0.25)))
	litres := 2.5e7
	require.Equal(t, "25000000", CellString(&litres))
	require.Equal(t, "true", CellString(true))
}

func TestRemoveEmptyStrings(t *testing.T) {
	rows := [][]string{
		{"hospital", "group", ""},
		{"", "", ""},
		{"St. Mary", "", ""},
		{},
		{"Lakeside", "O-"},
	}
	rows = RemoveEmptyStringRows(rows)
	require.Len(t, rows, 3)
	numCols := RemoveEmptyStringColumns(rows)
	require.Equal(t, 2, numCols)
	require.Equal(t, [][]string{
		{"hospital", "group"},
		{"St. Mary", ""},
		{"Lakeside", "O-"},
	}, rows)
	require.Equal(t, []int{8, 5}, StringColumnWidths(rows, 0))
	require.Equal(t, []int{8}, StringColumnWidths(rows, 1))
	require.Equal(t, []int{2}, StringColumnWidths([][]string{{"\u00e9\u00e8"}}, 0), "runes not bytes")
}
