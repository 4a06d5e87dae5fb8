// Package htmltable writes table views and interactive grid pages as HTML.
//
// Writer renders a plain <table> from any retable.View,
// GridWriter renders the complete page of a grid.Grid
// with search form, sortable headers, selection checkboxes,
// row actions and pagination controls.
//
// All cell values are HTML escaped unless a CellFormatter
// returns its result as raw.
package htmltable

import (
	"context"
	"errors"
	"html/template"
	"io"
	"maps"
	"reflect"

	"github.com/hemolink/retable"
)

// Writer writes a retable.View as HTML table.
//
// Writer is immutable, all With* methods return
// a modified copy of the Writer.
type Writer struct {
	tableClass       string
	columnFormatters map[int]retable.CellFormatter
	typeFormatters   map[reflect.Type]retable.CellFormatter
	nilValue         template.HTML
	headerRow        bool
	caption          bool
	headerTemplate   *template.Template
	rowTemplate      *template.Template
	footerTemplate   *template.Template
}

// NewWriter returns a Writer without table class, formatters
// and header row that renders the view title as caption.
func NewWriter() *Writer {
	return &Writer{
		columnFormatters: make(map[int]retable.CellFormatter),
		typeFormatters:   make(map[reflect.Type]retable.CellFormatter),
		caption:          true,
		headerTemplate:   HeaderTemplate,
		rowTemplate:      RowTemplate,
		footerTemplate:   FooterTemplate,
	}
}

// WriteView writes view as HTML table to dest.
//
// Every cell is formatted by the first of the following
// that does not return errors.ErrUnsupported:
//  1. the formatter registered for the column
//  2. the formatter registered for the type of the cell value
//  3. retable.CellStringFormatter
//
// Null-like values that no formatter supports are written as the nil value.
func (w *Writer) WriteView(ctx context.Context, dest io.Writer, view retable.View) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var (
		columns   = view.Columns()
		numCols   = len(columns)
		templData = &RowTemplateContext{
			TemplateContext: TemplateContext{
				TableClass: w.tableClass,
			},
			RawCells: make([]template.HTML, numCols),
		}
	)
	if w.caption {
		templData.Caption = view.Title()
	}

	err := w.headerTemplate.Execute(dest, templData.TemplateContext)
	if err != nil {
		return err
	}

	if w.headerRow {
		templData.IsHeaderRow = true
		for i := range columns {
			templData.RawCells[i] = escape(columns[i])
		}
		err = w.rowTemplate.Execute(dest, templData)
		if err != nil {
			return err
		}
		templData.IsHeaderRow = false
		templData.RowIndex++
	}

	for row, numRows := 0, view.NumRows(); row < numRows; row++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		for col := range numCols {
			templData.RawCells[col], err = w.FormatCell(ctx, view, row, col)
			if err != nil {
				return err
			}
		}
		err = w.rowTemplate.Execute(dest, templData)
		if err != nil {
			return err
		}
		templData.RowIndex++
	}

	return w.footerTemplate.Execute(dest, templData.TemplateContext)
}

// FormatCell formats a single cell of view as HTML
// with the formatter cascade of WriteView.
func (w *Writer) FormatCell(ctx context.Context, view retable.View, row, col int) (template.HTML, error) {
	var typeFormatter retable.CellFormatter
	if val := view.Cell(row, col); val != nil {
		typeFormatter = w.typeFormatters[reflect.TypeOf(val)]
	}
	str, isRaw, err := retable.FormatCell(ctx, view, row, col,
		w.columnFormatters[col],
		typeFormatter,
		retable.CellStringFormatter{},
	)
	switch {
	case errors.Is(err, errors.ErrUnsupported):
		return w.nilValue, nil
	case err != nil:
		return "", err
	case isRaw:
		return template.HTML(str), nil //#nosec G203
	default:
		return escape(str), nil
	}
}

func escape(str string) template.HTML {
	return template.HTML(template.HTMLEscapeString(str)) //#nosec G203
}

func (w *Writer) clone() *Writer {
	c := new(Writer)
	*c = *w
	return c
}

// WithHeaderRow returns a new writer that writes
// the column names as first row of <th> elements.
func (w *Writer) WithHeaderRow(headerRow bool) *Writer {
	mod := w.clone()
	mod.headerRow = headerRow
	return mod
}

// WithCaption returns a new writer that writes
// the view title as <caption> if not empty.
func (w *Writer) WithCaption(caption bool) *Writer {
	mod := w.clone()
	mod.caption = caption
	return mod
}

// WithTableClass returns a new writer with the CSS class
// of the <table> element.
func (w *Writer) WithTableClass(tableClass string) *Writer {
	mod := w.clone()
	mod.tableClass = tableClass
	return mod
}

// WithColumnFormatter returns a new writer with the formatter
// registered for the column with columnIndex.
// Passing nil removes a previously registered formatter.
func (w *Writer) WithColumnFormatter(columnIndex int, formatter retable.CellFormatter) *Writer {
	mod := w.clone()
	mod.columnFormatters = make(map[int]retable.CellFormatter, len(w.columnFormatters)+1)
	maps.Copy(mod.columnFormatters, w.columnFormatters)
	if formatter != nil {
		mod.columnFormatters[columnIndex] = formatter
	} else {
		delete(mod.columnFormatters, columnIndex)
	}
	return mod
}

// WithColumnFormatterFunc returns a new writer with the formatter
// function registered for the column with columnIndex.
func (w *Writer) WithColumnFormatterFunc(columnIndex int, formatterFunc retable.CellFormatterFunc) *Writer {
	if formatterFunc == nil {
		return w.WithColumnFormatter(columnIndex, nil)
	}
	return w.WithColumnFormatter(columnIndex, formatterFunc)
}

// WithRawColumn returns a new writer that writes the values
// of the column with columnIndex as raw HTML without escaping.
//
// Only use this for trusted content.
func (w *Writer) WithRawColumn(columnIndex int) *Writer {
	return w.WithColumnFormatterFunc(columnIndex, func(ctx context.Context, view retable.View, row, col int) (string, bool, error) {
		val := view.Cell(row, col)
		if retable.IsNullLike(val) {
			return "", false, errors.ErrUnsupported
		}
		return retable.CellString(val), true, nil
	})
}

// WithTypeFormatter returns a new writer with the formatter
// registered for cell values of type typ.
// Type formatters are used for columns without column formatter
// or if the column formatter returns errors.ErrUnsupported.
func (w *Writer) WithTypeFormatter(typ reflect.Type, formatter retable.CellFormatter) *Writer {
	mod := w.clone()
	mod.typeFormatters = make(map[reflect.Type]retable.CellFormatter, len(w.typeFormatters)+1)
	maps.Copy(mod.typeFormatters, w.typeFormatters)
	if formatter != nil {
		mod.typeFormatters[typ] = formatter
	} else {
		delete(mod.typeFormatters, typ)
	}
	return mod
}

// WithNilValue returns a new writer that writes
// null-like cell values as nilValue.
func (w *Writer) WithNilValue(nilValue template.HTML) *Writer {
	mod := w.clone()
	mod.nilValue = nilValue
	return mod
}

// WithTemplate returns a new writer using the passed templates.
// Nil templates keep the current ones.
func (w *Writer) WithTemplate(header, row, footer *template.Template) *Writer {
	mod := w.clone()
	if header != nil {
		mod.headerTemplate = header
	}
	if row != nil {
		mod.rowTemplate = row
	}
	if footer != nil {
		mod.footerTemplate = footer
	}
	return mod
}
