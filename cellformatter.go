package retable

import (
	"context"
	"errors"
	"fmt"
)

var (
	_ CellFormatter = CellFormatterFunc(nil)
	_ CellFormatter = PrintfCellFormatter("")
	_ CellFormatter = PrintfRawCellFormatter("")
	_ CellFormatter = RawCellString("")
	_ CellFormatter = CellStringFormatter{}
)

// CellFormatter is an interface for formatting view cells as strings.
type CellFormatter interface {
	// FormatCell formats the cell at row and col of view as string
	// or returns a wrapped errors.ErrUnsupported error if
	// it doesn't support formatting the value of the cell.
	// The raw result indicates if the returned string
	// is in the raw format of the table format and can be
	// used as is or if it has to be sanitized in some way.
	FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error)
}

// CellFormatterFunc implements CellFormatter for a function.
type CellFormatterFunc func(ctx context.Context, view View, row, col int) (str string, raw bool, err error)

func (f CellFormatterFunc) FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error) {
	return f(ctx, view, row, col)
}

// PrintfCellFormatter implements CellFormatter by calling
// fmt.Sprintf with this type's string value as format.
type PrintfCellFormatter string

func (format PrintfCellFormatter) FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error) {
	return fmt.Sprintf(string(format), view.Cell(row, col)), false, nil
}

// PrintfRawCellFormatter implements CellFormatter by calling
// fmt.Sprintf with this type's string value as format.
// The result will be indicated to be a raw value.
type PrintfRawCellFormatter string

func (format PrintfRawCellFormatter) FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error) {
	return fmt.Sprintf(string(format), view.Cell(row, col)), true, nil
}

// RawCellString implements CellFormatter by returning
// the underlying string as raw value.
type RawCellString string

func (rawStr RawCellString) FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error) {
	return string(rawStr), true, nil
}

// CellStringFormatter formats every cell using CellString
// and returns errors.ErrUnsupported for null-like values
// so that writers can substitute their nil value.
type CellStringFormatter struct{}

func (CellStringFormatter) FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error) {
	val := view.Cell(row, col)
	if IsNullLike(val) {
		return "", false, errors.ErrUnsupported
	}
	return CellString(val), false, nil
}

// FormatCell formats a cell with the first formatter
// that does not return errors.ErrUnsupported.
// If no formatter supports the cell then
// errors.ErrUnsupported is returned.
func FormatCell(ctx context.Context, view View, row, col int, formatters ...CellFormatter) (str string, raw bool, err error) {
	for _, f := range formatters {
		if f == nil {
			continue
		}
		str, raw, err = f.FormatCell(ctx, view, row, col)
		if !errors.Is(err, errors.ErrUnsupported) {
			return str, raw, err
		}
	}
	return "", false, errors.ErrUnsupported
}
