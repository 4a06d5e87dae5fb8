// Package exceltable reads the sheets of XLSX workbooks as
// retable.View tables and writes views as XLSX workbooks
// using github.com/xuri/excelize/v2.
package exceltable

import (
	"errors"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/hemolink/retable"
)

// ReadFirstSheet reads the first sheet of the workbook from reader
// as view with the first non empty row as column names.
// If rawCellStrings is true then cell values are not
// formatted with their number format.
func ReadFirstSheet(reader io.Reader, rawCellStrings bool) (view *retable.StringsView, err error) {
	return ReadSheet(reader, "", rawCellStrings)
}

// ReadSheet reads the sheet with name from the workbook of reader,
// or the first sheet if name is empty.
func ReadSheet(reader io.Reader, name string, rawCellStrings bool) (view *retable.StringsView, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if name == "" {
		name = f.GetSheetName(0)
		if name == "" {
			return nil, ErrSheetNotExist{SheetName: "<FirstSheet>"}
		}
	} else if idx, _ := f.GetSheetIndex(name); idx < 0 {
		return nil, ErrSheetNotExist{SheetName: name}
	}
	return readSheet(f, name, rawCellStrings)
}

// Read reads all non empty sheets of the workbook from reader.
func Read(reader io.Reader, rawCellStrings bool) (views []*retable.StringsView, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	for _, sheet := range f.GetSheetList() {
		view, err := readSheet(f, sheet, rawCellStrings)
		if err != nil {
			if errors.Is(err, ErrEmptySheet) {
				continue
			}
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func readSheet(f *excelize.File, sheet string, rawCellStrings bool) (*retable.StringsView, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: rawCellStrings})
	if err != nil {
		return nil, err
	}
	rows = retable.RemoveEmptyStringRows(rows)
	numCols := retable.RemoveEmptyStringColumns(rows)
	if len(rows) == 0 || numCols == 0 {
		return nil, ErrEmptySheet
	}
	columns := rows[0]
	if len(columns) < numCols {
		columns = append(columns, make([]string, numCols-len(columns))...)
	}
	return retable.NewStringsView(sheet, rows[1:], columns...), nil
}
