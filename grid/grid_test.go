package grid

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

type record = map[string]any

func numberedRecords(n int) []record {
	records := make([]record, n)
	for i := range records {
		records[i] = record{"id": i + 1, "name": fmt.Sprintf("Donor %02d", i+1)}
	}
	return records
}

func keysOf[T any](page *Page[T]) []string {
	keys := make([]string, len(page.Rows))
	for i, row := range page.Rows {
		keys[i] = row.Key
	}
	return keys
}

func keyRange(from, to int) []string {
	var keys []string
	for i := from; i <= to; i++ {
		keys = append(keys, strconv.Itoa(i))
	}
	return keys
}

func newDonorGrid(t *testing.T, data []record) *Grid[record] {
	t.Helper()
	g, err := New(Config[record]{
		Columns: []Column[record]{
			{Key: "name", Title: "Name", Sortable: true},
			{Key: "blood_group", Title: "Blood Group", Sortable: true},
			{Key: "city", Title: "City"},
		},
		Data:            data,
		PageSizeOptions: []int{10, 25, 50},
		Selectable:      true,
	})
	require.NoError(t, err)
	return g
}

func donors() []record {
	return []record{
		{"id": "d1", "name": "Chidi", "blood_group": "O+", "city": "Lagos"},
		{"id": "d2", "name": "amara", "blood_group": "A-", "city": "Abuja"},
		{"id": "d3", "name": "Bola", "blood_group": "o+", "city": "Ibadan"},
		{"id": "d4", "name": "Dayo", "blood_group": "B+", "city": "Port Harcourt"},
		{"id": "d5", "name": "Emeka", "blood_group": nil, "city": "Enugu"},
	}
}

func TestNew_Config(t *testing.T) {
	tests := []struct {
		name    string
		config  Config[record]
		wantErr error
	}{
		{name: "no page sizes", config: Config[record]{}, wantErr: ErrNoPageSizes},
		{name: "zero page size", config: Config[record]{PageSizeOptions: []int{10, 0}}, wantErr: ErrInvalidPageSize},
		{name: "initial not an option", config: Config[record]{PageSizeOptions: []int{10, 20}, InitialPageSize: 15}, wantErr: ErrInvalidPageSize},
		{name: "empty columns", config: Config[record]{PageSizeOptions: []int{10}}},
		{name: "initial page size", config: Config[record]{PageSizeOptions: []int{10, 20}, InitialPageSize: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.config)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, 1, g.PageNumber())
			require.Equal(t, "", g.Query())
			require.Nil(t, g.Sort())
			require.Empty(t, g.Selected())
			require.Equal(t, DefaultRowKey, g.RowKey())
			if tt.config.InitialPageSize != 0 {
				require.Equal(t, tt.config.InitialPageSize, g.PageSize())
			} else {
				require.Equal(t, tt.config.PageSizeOptions[0], g.PageSize())
			}
		})
	}
}

func TestGrid_Pagination(t *testing.T) {
	g, err := New(Config[record]{
		Columns:         []Column[record]{{Key: "name", Title: "Name"}},
		Data:            numberedRecords(25),
		PageSizeOptions: []int{10, 25, 50},
		InitialPageSize: 10,
	})
	require.NoError(t, err)

	require.Equal(t, 3, g.TotalPages())
	page := g.Page()
	require.Equal(t, keyRange(1, 10), keysOf(page))
	require.Equal(t, 1, page.First)
	require.Equal(t, 10, page.Last)
	require.False(t, page.Empty())

	require.False(t, g.CanPrev())
	require.False(t, g.FirstPage())
	require.False(t, g.PrevPage())

	require.True(t, g.LastPage())
	page = g.Page()
	require.Equal(t, 3, page.Number)
	require.Equal(t, keyRange(21, 25), keysOf(page))
	require.Equal(t, 21, page.First)
	require.Equal(t, 25, page.Last)
	require.False(t, g.CanNext())
	require.False(t, g.NextPage())
	require.False(t, g.LastPage())

	require.True(t, g.PrevPage())
	require.Equal(t, keyRange(11, 20), keysOf(g.Page()))

	require.NoError(t, g.SetPageSize(25))
	require.Equal(t, 1, g.PageNumber())
	require.Equal(t, 1, g.TotalPages())
	require.Equal(t, keyRange(1, 25), keysOf(g.Page()))

	require.ErrorIs(t, g.SetPageSize(30), ErrInvalidPageSize)
	require.ErrorIs(t, g.SetPage(2), ErrInvalidPage)
	require.ErrorIs(t, g.SetPage(0), ErrInvalidPage)
}

func TestGrid_EmptyData(t *testing.T) {
	g := newDonorGrid(t, nil)
	require.Equal(t, 1, g.TotalPages())
	require.Equal(t, 0, g.TotalRows())
	page := g.Page()
	require.True(t, page.Empty())
	require.Zero(t, page.First)
	require.False(t, g.CanNext())
	require.False(t, g.PageSelected())
	require.Equal(t, 4, g.ColSpan(), "3 columns plus selection")
}

func TestGrid_Search(t *testing.T) {
	g := newDonorGrid(t, donors())

	g.SetQuery("o+")
	require.Equal(t, []string{"d1", "d3"}, keysOf(g.Page()))

	g.SetQuery("ABUJA")
	require.Equal(t, []string{"d2"}, keysOf(g.Page()))

	// id field is searched even though it is not a column
	g.SetQuery("d4")
	require.Equal(t, []string{"d4"}, keysOf(g.Page()))

	g.SetQuery("no such donor")
	page := g.Page()
	require.True(t, page.Empty())
	require.Equal(t, 1, page.TotalPages)

	g.SetQuery("")
	require.Equal(t, []string{"d1", "d2", "d3", "d4", "d5"}, keysOf(g.Page()))
}

func TestGrid_SearchFloats(t *testing.T) {
	g := newDonorGrid(t, []record{
		{"id": "b1", "name": "Central", "volume_ml": 1500000.0},
		{"id": "b2", "name": "North", "volume_ml": 0.00001},
		{"id": "b3", "name": "Coast", "volume_ml": 450.5},
	})

	g.SetQuery("1500000")
	require.Equal(t, []string{"b1"}, keysOf(g.Page()))

	g.SetQuery("0.00001")
	require.Equal(t, []string{"b2"}, keysOf(g.Page()))

	g.SetQuery("e+")
	require.True(t, g.Page().Empty(), "no exponent notation")
}

func TestGrid_ToggleSort(t *testing.T) {
	g := newDonorGrid(t, donors())

	require.Equal(t, &SortSpec{Key: "name", Direction: Ascending}, g.ToggleSort("name"))
	require.Equal(t, []string{"d2", "d3", "d1", "d4", "d5"}, keysOf(g.Page()), "locale compare ignores case")

	require.Equal(t, &SortSpec{Key: "name", Direction: Descending}, g.ToggleSort("name"))
	require.Equal(t, []string{"d5", "d4", "d1", "d3", "d2"}, keysOf(g.Page()))

	require.Nil(t, g.ToggleSort("name"))
	require.Equal(t, []string{"d1", "d2", "d3", "d4", "d5"}, keysOf(g.Page()))

	// not sortable
	require.Nil(t, g.ToggleSort("city"))
	// unknown
	require.Nil(t, g.ToggleSort("nope"))

	g.ToggleSort("name")
	require.Equal(t, &SortSpec{Key: "blood_group", Direction: Ascending}, g.ToggleSort("blood_group"), "other column starts ascending")
}

func TestGrid_SortNulls(t *testing.T) {
	g := newDonorGrid(t, donors())

	g.ToggleSort("blood_group")
	keys := keysOf(g.Page())
	require.Equal(t, "d5", keys[0], "nil first ascending")

	g.ToggleSort("blood_group")
	keys = keysOf(g.Page())
	require.Equal(t, "d5", keys[len(keys)-1], "nil last descending")
}

func TestGrid_SortNumbersAndStability(t *testing.T) {
	data := []record{
		{"id": 1, "units": 10, "group": "A"},
		{"id": 2, "units": 2, "group": "B"},
		{"id": 3, "units": 10, "group": "A"},
		{"id": 4, "units": 2.5, "group": "A"},
		{"id": 5, "units": 2, "group": "B"},
	}
	g, err := New(Config[record]{
		Columns: []Column[record]{
			{Key: "units", Sortable: true},
			{Key: "group", Sortable: true},
		},
		Data:            data,
		PageSizeOptions: []int{10},
	})
	require.NoError(t, err)

	g.ToggleSort("units")
	require.Equal(t, []string{"2", "5", "4", "1", "3"}, keysOf(g.Page()))

	g.ToggleSort("units")
	require.Equal(t, []string{"1", "3", "4", "2", "5"}, keysOf(g.Page()), "equal keys keep their order descending")

	g.ToggleSort("group")
	require.Equal(t, []string{"1", "3", "4", "2", "5"}, keysOf(g.Page()))
}

func TestGrid_Selection(t *testing.T) {
	var changes [][]string
	g, err := New(Config[record]{
		Columns:           []Column[record]{{Key: "name"}},
		Data:              numberedRecords(25),
		PageSizeOptions:   []int{10},
		Selectable:        true,
		OnSelectionChange: func(keys []string) { changes = append(changes, keys) },
	})
	require.NoError(t, err)

	g.ToggleRow("3")
	require.Equal(t, [][]string{{"3"}}, changes)
	require.True(t, g.Page().Rows[2].Selected)

	require.True(t, g.NextPage())
	g.SetPageSelected(true)
	require.True(t, g.PageSelected())
	require.Equal(t, append([]string{"3"}, keyRange(11, 20)...), g.Selected())

	require.True(t, g.PrevPage())
	require.True(t, g.IsSelected("3"))
	require.False(t, g.PageSelected())

	require.True(t, g.NextPage())
	g.SetPageSelected(false)
	require.Equal(t, []string{"3"}, g.Selected(), "unselecting a page keeps other pages")
	require.Len(t, changes, 3)

	// toggling twice restores the selection
	before := g.Selected()
	g.ToggleRow("15")
	g.ToggleRow("15")
	require.Equal(t, before, g.Selected())

	g.ClearSelection()
	require.Empty(t, g.Selected())
}

func TestGrid_SelectionDisabled(t *testing.T) {
	called := false
	g, err := New(Config[record]{
		Data:              numberedRecords(3),
		PageSizeOptions:   []int{10},
		OnSelectionChange: func([]string) { called = true },
	})
	require.NoError(t, err)
	g.ToggleRow("1")
	g.SetPageSelected(true)
	require.Empty(t, g.Selected())
	require.False(t, called)
}

func TestGrid_RowClickAndActions(t *testing.T) {
	var clicked, deleted []any
	var selections int
	g, err := New(Config[record]{
		Columns:           []Column[record]{{Key: "name"}},
		Data:              numberedRecords(12),
		PageSizeOptions:   []int{10},
		Selectable:        true,
		OnSelectionChange: func([]string) { selections++ },
		OnRowClick:        func(r record) { clicked = append(clicked, r["id"]) },
		Actions: []Action[record]{
			{Label: "Delete", OnClick: func(r record) { deleted = append(deleted, r["id"]) }},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 3, g.ColSpan())

	require.NoError(t, g.ClickRow(1))
	require.Equal(t, []any{2}, clicked)
	require.Zero(t, selections, "row click does not select")

	g.ToggleRow("2")
	require.Equal(t, []any{2}, clicked, "selecting does not click")

	require.True(t, g.NextPage())
	require.NoError(t, g.InvokeAction("Delete", 0))
	require.Equal(t, []any{11}, deleted)

	require.ErrorIs(t, g.InvokeAction("Archive", 0), ErrUnknownAction)
	require.ErrorIs(t, g.ClickRow(2), ErrRowOutOfRange)
	require.ErrorIs(t, g.ClickRow(-1), ErrRowOutOfRange)
}

func TestGrid_SetColumns(t *testing.T) {
	g := newDonorGrid(t, donors())
	g.ToggleSort("blood_group")
	g.SetQuery("a")

	g.SetColumns([]Column[record]{
		{Key: "name", Title: "Name", Sortable: true},
		{Key: "blood_group", Title: "Blood Group", Sortable: true},
		{Key: "phone", Title: "Phone"},
	})
	require.Equal(t, &SortSpec{Key: "blood_group", Direction: Ascending}, g.Sort(), "still sortable")
	require.Equal(t, "a", g.Query())
	require.Equal(t, []string{"Name", "Blood Group", "Phone"}, g.Titles())
	require.Equal(t, 3, len(g.Page().Rows[0].Cells))

	g.SetColumns([]Column[record]{{Key: "name", Title: "Name", Sortable: true}})
	require.Nil(t, g.Sort(), "sort column removed")
	require.Equal(t, []any{"Chidi"}, g.Page().Rows[0].Cells)
}

func TestGrid_SetDataClampsPage(t *testing.T) {
	g, err := New(Config[record]{
		Data:            numberedRecords(25),
		PageSizeOptions: []int{10},
		Selectable:      true,
	})
	require.NoError(t, err)
	g.ToggleRow("22")
	require.True(t, g.LastPage())
	require.Equal(t, 3, g.PageNumber())

	g.SetData(numberedRecords(15))
	require.Equal(t, 2, g.PageNumber())
	require.Equal(t, keyRange(11, 15), keysOf(g.Page()))
	require.Equal(t, []string{"22"}, g.Selected(), "selection is kept")

	g.SetData(nil)
	require.Equal(t, 1, g.PageNumber())
	require.True(t, g.Page().Empty())
}

func TestGrid_QueryClampsPage(t *testing.T) {
	g, err := New(Config[record]{
		Data:            numberedRecords(25),
		PageSizeOptions: []int{10},
	})
	require.NoError(t, err)
	require.True(t, g.LastPage())

	g.SetQuery("Donor 2")
	require.Equal(t, 1, g.PageNumber())
	require.Equal(t, keyRange(20, 25), keysOf(g.Page()), `"Donor 02" does not match`)
}

type bloodRequest struct {
	ID       string  `col:"id"`
	Hospital string  `col:"hospital"`
	Units    int     `col:"units"`
	Urgency  *string `col:"urgency"`
	internal string
}

func TestGrid_StructRecords(t *testing.T) {
	urgent := "urgent"
	data := []bloodRequest{
		{ID: "r1", Hospital: "General", Units: 4},
		{ID: "r2", Hospital: "St. Mary", Units: 1, Urgency: &urgent},
		{ID: "r3", Hospital: "City Clinic", Units: 12},
	}
	g, err := New(Config[bloodRequest]{
		Columns: []Column[bloodRequest]{
			{Key: "hospital", Title: "Hospital", Sortable: true},
			{
				Key:      "units",
				Title:    "Units",
				Sortable: true,
				Render:   func(r bloodRequest) any { return fmt.Sprintf("%d units", r.Units) },
			},
			{Key: "urgency", Sortable: true},
		},
		Data:            data,
		PageSizeOptions: []int{10},
	})
	require.NoError(t, err)

	g.ToggleSort("units")
	page := g.Page()
	require.Equal(t, []string{"r2", "r1", "r3"}, keysOf(page), "sorted by raw value, not rendered string")
	require.Equal(t, []any{"St. Mary", "1 units", &urgent}, page.Rows[0].Cells)

	g.SetQuery("units")
	require.True(t, g.Page().Empty(), "rendered values are not searched")

	g.SetQuery("URGENT")
	require.Equal(t, []string{"r2"}, keysOf(g.Page()))

	g.SetQuery("")
	g.ToggleSort("urgency")
	require.Equal(t, []string{"r1", "r3", "r2"}, keysOf(g.Page()))

	view := g.View()
	require.Equal(t, []string{"hospital", "units", "urgency"}, view.Columns())
	require.Equal(t, 3, view.NumRows())
	require.Equal(t, 4, view.Cell(0, 1))
	require.Equal(t, "1 units", g.PageView().Cell(2, 1))
	require.Equal(t, []string{"Hospital", "Units", "urgency"}, g.Titles())
}

func TestGrid_ComputedColumn(t *testing.T) {
	data := []record{
		{"id": 1, "first": "Ada", "last": "Obi"},
		{"id": 2, "first": "Ben", "last": "Ade"},
	}
	g, err := New(Config[record]{
		Columns: []Column[record]{
			{
				Key:      "full_name",
				Sortable: true,
				Value:    func(r record) any { return fmt.Sprint(r["last"], ", ", r["first"]) },
			},
		},
		Data:            data,
		PageSizeOptions: []int{10},
	})
	require.NoError(t, err)

	g.ToggleSort("full_name")
	require.Equal(t, []string{"2", "1"}, keysOf(g.Page()))
	require.Equal(t, "Ade, Ben", g.Page().Rows[0].Cells[0])

	g.SetQuery("obi, ada")
	require.Equal(t, []string{"1"}, keysOf(g.Page()))
}

func TestGrid_LocaleCompare(t *testing.T) {
	data := []record{
		{"id": 1, "name": "Zebra"},
		{"id": 2, "name": "banana"},
		{"id": 3, "name": "äpfel"},
	}
	g, err := New(Config[record]{
		Columns:         []Column[record]{{Key: "name", Sortable: true}},
		Data:            data,
		PageSizeOptions: []int{10},
	})
	require.NoError(t, err)
	g.ToggleSort("name")
	require.Equal(t, []string{"3", "2", "1"}, keysOf(g.Page()))
}

func TestGrid_CustomRowKey(t *testing.T) {
	data := []record{
		{"donor_id": "x", "name": "A"},
		{"donor_id": "y", "name": "B"},
	}
	g, err := New(Config[record]{
		Data:            data,
		PageSizeOptions: []int{10},
		RowKey:          "donor_id",
		Selectable:      true,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y"}, keysOf(g.Page()))
	g.SetPageSelected(true)
	require.Equal(t, []string{"x", "y"}, g.Selected())
}

func TestGrid_Views(t *testing.T) {
	g := newDonorGrid(t, donors())
	g.ToggleSort("name")
	g.ToggleRow("d4")
	g.ToggleRow("d2")

	view := g.View()
	require.Equal(t, []string{"name", "blood_group", "city"}, view.Columns())
	require.Equal(t, 5, view.NumRows())
	require.Equal(t, "amara", view.Cell(0, 0))
	require.Nil(t, view.Cell(4, 1), "Emeka has no blood group")

	selected := g.SelectedView()
	require.Equal(t, 2, selected.NumRows())
	require.Equal(t, "amara", selected.Cell(0, 0), "selected rows in sort order")
	require.Equal(t, "Dayo", selected.Cell(1, 0))

	page := g.PageView()
	require.Equal(t, 5, page.NumRows())
	require.Equal(t, []string{"Name", "Blood Group", "City"}, g.Titles())
}
