package exceltable

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hemolink/retable"
)

func TestWriteView_ReadFirstSheet(t *testing.T) {
	view := &retable.AnyValuesView{
		Tit:  "Blood banks",
		Cols: []string{"Name", "Units", "Open", "Note"},
		Rows: [][]any{
			{"Lagos Central", 12, true, nil},
			{"Ibadan", 4.5, false, "refrigerator repair"},
		},
	}
	var buf bytes.Buffer
	err := WriteView(context.Background(), &buf, view)
	require.NoError(t, err)

	read, err := ReadFirstSheet(bytes.NewReader(buf.Bytes()), true)
	require.NoError(t, err)
	require.Equal(t, "Blood banks", read.Title())
	require.Equal(t, view.Cols, read.Columns())
	require.Equal(t, 2, read.NumRows())
	require.Equal(t, "Lagos Central", read.Cell(0, 0))
	require.Equal(t, "12", read.Cell(0, 1))
	require.Equal(t, "", read.Cell(0, 3))
	require.Equal(t, "4.5", read.Cell(1, 1))
	require.Equal(t, "refrigerator repair", read.Cell(1, 3))

	_, err = ReadSheet(bytes.NewReader(buf.Bytes()), "Donors", true)
	require.ErrorAs(t, err, new(ErrSheetNotExist))
}

func TestRead(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet("Empty")
	require.NoError(t, err)
	_, err = f.NewSheet("Donors")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Donors", "B3", &[]any{"id", "group"}))
	require.NoError(t, f.SetSheetRow("Donors", "B4", &[]any{"d1", "O+"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	views, err := Read(bytes.NewReader(buf.Bytes()), false)
	require.NoError(t, err)
	require.Len(t, views, 1, "empty sheets are skipped")
	require.Equal(t, "Donors", views[0].Title())
	require.Equal(t, []string{"", "id", "group"}, views[0].Columns())
	require.Equal(t, "O+", views[0].Cell(0, 2))

	view, err := ReadSheet(bytes.NewReader(buf.Bytes()), "Donors", false)
	require.NoError(t, err)
	require.Equal(t, 1, view.NumRows())

	_, err = ReadFirstSheet(bytes.NewReader(buf.Bytes()), false)
	require.ErrorIs(t, err, ErrEmptySheet)
}

func TestSheetName(t *testing.T) {
	require.Equal(t, DefaultSheetName, SheetName(" "))
	require.Equal(t, "Requests _ 2026_10", SheetName("Requests / 2026:10"))
	require.Equal(t, 31, len([]rune(SheetName("Blood requests of all hospitals in the region"))))
}
