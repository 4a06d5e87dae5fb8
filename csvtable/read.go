package csvtable

import (
	"errors"

	"github.com/hemolink/retable"
)

// ErrNoHeaderRow is returned by the Read functions
// for CSV data without any non empty row.
var ErrNoHeaderRow = errors.New("CSV has no header row")

// ReadDetectFormat parses csv with ParseDetectFormat
// and returns a view using the first non empty row as
// column names. Empty rows and trailing empty columns are removed.
func ReadDetectFormat(csv []byte, title string, config *FormatDetectionConfig) (*retable.StringsView, *Format, error) {
	rows, format, err := ParseDetectFormat(csv, config)
	if err != nil {
		return nil, format, err
	}
	view, err := rowsView(title, rows)
	return view, format, err
}

// ReadWithFormat parses csv with ParseWithFormat
// and returns a view like ReadDetectFormat.
func ReadWithFormat(csv []byte, title string, format *Format) (*retable.StringsView, error) {
	rows, err := ParseWithFormat(csv, format)
	if err != nil {
		return nil, err
	}
	return rowsView(title, rows)
}

func rowsView(title string, rows [][]string) (*retable.StringsView, error) {
	rows = retable.RemoveEmptyStringRows(rows)
	if len(rows) == 0 {
		return nil, ErrNoHeaderRow
	}
	retable.RemoveEmptyStringColumns(rows)
	return retable.NewStringsView(title, rows), nil
}
