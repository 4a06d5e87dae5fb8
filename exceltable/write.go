package exceltable

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/hemolink/retable"
)

// DefaultSheetName is used by WriteView for views without title.
const DefaultSheetName = "Sheet1"

// WriteView writes view as single sheet XLSX workbook to dest.
// The sheet is named after the view title, the first row
// holds the column names in bold.
// Numbers, booleans and times are written as typed cells,
// null-like values as empty cells and everything else
// formatted by retable.CellString.
func WriteView(ctx context.Context, dest io.Writer, view retable.View) (err error) {
	f := excelize.NewFile()
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	sheet := SheetName(view.Title())
	if sheet != DefaultSheetName {
		if err = f.SetSheetName(DefaultSheetName, sheet); err != nil {
			return err
		}
	}

	columns := view.Columns()
	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err = f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err = f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return err
	}

	for row, numRows := 0, view.NumRows(); row < numRows; row++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		values := retable.RowValues(view, row)
		for col, val := range values {
			values[col] = cellValue(val)
		}
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return err
		}
		if err = f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	return f.Write(dest)
}

func cellValue(val any) any {
	if retable.IsNullLike(val) {
		return ""
	}
	switch val.(type) {
	case string, bool, time.Time,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return val
	}
	return retable.CellString(val)
}

// SheetName returns title as valid sheet name:
// at most 31 characters without any of []:*?/\
// or DefaultSheetName if title is empty.
func SheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	for utf8.RuneCountInString(name) > 31 {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	if name == "" {
		return DefaultSheetName
	}
	return name
}
