package csvtable

import (
	"bytes"
	"context"
	"errors"
	"io"
	"maps"
	"strings"
	"unicode/utf8"

	"github.com/domonda/go-types/charset"

	"github.com/hemolink/retable"
)

// Padding aligns the fields of a column
// by padding them to the same width with spaces.
type Padding int

const (
	NoPadding Padding = iota
	AlignLeft
	AlignRight
	AlignCenter
)

// Writer writes a retable.View as CSV.
//
// Writer is immutable, all With* methods return
// a modified copy of the Writer.
type Writer struct {
	columnFormatters map[int]retable.CellFormatter
	padding          Padding
	headerRow        bool
	quoteAllFields   bool
	quoteEmptyFields bool
	nilValue         string
	delimiter        rune
	newLine          string
	encoding         charset.Encoding
}

// NewWriter returns a Writer for UTF-8 CSV with
// ';' as delimiter, "\r\n" newlines and no header row.
func NewWriter() *Writer {
	return &Writer{
		columnFormatters: make(map[int]retable.CellFormatter),
		delimiter:        ';',
		newLine:          "\r\n",
	}
}

// NewWriterForFormat returns a Writer producing CSV in format.
func NewWriterForFormat(format *Format) (*Writer, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	w := NewWriter()
	w.delimiter = rune(format.Separator[0])
	w.newLine = format.Newline
	return w.WithEncoding(format.Encoding)
}

func (w *Writer) clone() *Writer {
	c := new(Writer)
	*c = *w
	return c
}

// WriteView writes the rows of view as CSV to dest,
// preceded by the column names if the header row is enabled.
func (w *Writer) WriteView(ctx context.Context, dest io.Writer, view retable.View) error {
	rows, err := w.ViewStrings(ctx, view)
	if err != nil {
		return err
	}

	var widths []int
	if w.padding != NoPadding {
		widths = retable.StringColumnWidths(rows, len(view.Columns()))
	}

	var rowBuf bytes.Buffer
	for _, fields := range rows {
		for col, str := range fields {
			if col > 0 {
				rowBuf.WriteRune(w.delimiter)
			}
			if widths == nil {
				rowBuf.WriteString(str)
				continue
			}
			var (
				padTotal = widths[col] - utf8.RuneCountInString(str)
				padLeft  int
			)
			switch w.padding {
			case AlignRight:
				padLeft = padTotal
			case AlignCenter:
				padLeft = padTotal / 2
			}
			rowBuf.WriteString(strings.Repeat(" ", padLeft))
			rowBuf.WriteString(str)
			rowBuf.WriteString(strings.Repeat(" ", padTotal-padLeft))
		}
		rowBuf.WriteString(w.newLine)

		line := rowBuf.Bytes()
		if w.encoding != nil {
			line, err = w.encoding.Encode(line)
			if err != nil {
				return err
			}
		}
		if _, err = dest.Write(line); err != nil {
			return err
		}
		rowBuf.Reset()
	}
	return nil
}

// ViewStrings returns the escaped CSV fields of all rows of view
// including the header row if enabled.
func (w *Writer) ViewStrings(ctx context.Context, view retable.View) ([][]string, error) {
	var (
		columns = view.Columns()
		numRows = view.NumRows()
		rows    = make([][]string, 0, numRows+1)
	)
	if w.headerRow {
		header := make([]string, len(columns))
		for col, name := range columns {
			header[col] = w.escapeString(name, false)
		}
		rows = append(rows, header)
	}
	for row := range numRows {
		fields := make([]string, len(columns))
		for col := range columns {
			var err error
			fields[col], err = w.cellString(ctx, view, row, col)
			if err != nil {
				return nil, err
			}
		}
		rows = append(rows, fields)
	}
	return rows, nil
}

func (w *Writer) cellString(ctx context.Context, view retable.View, row, col int) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	str, isRaw, err := retable.FormatCell(ctx, view, row, col,
		w.columnFormatters[col],
		retable.CellStringFormatter{},
	)
	if errors.Is(err, errors.ErrUnsupported) {
		return w.escapeString(w.nilValue, false), nil
	}
	if err != nil {
		return "", err
	}
	return w.escapeString(str, isRaw), nil
}

func (w *Writer) escapeString(str string, isRaw bool) string {
	if isRaw {
		return str
	}
	str = strings.ReplaceAll(str, "\r", "")
	switch {
	case w.quoteAllFields || strings.ContainsRune(str, w.delimiter) || strings.ContainsAny(str, "\n\""):
		return `"` + EscapeQuotes(str) + `"`
	case w.quoteEmptyFields && str == "":
		return `""`
	}
	return str
}

// WithHeaderRow returns a new writer that writes
// the column names as first row.
func (w *Writer) WithHeaderRow(headerRow bool) *Writer {
	mod := w.clone()
	mod.headerRow = headerRow
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

func (w *Writer) WithPadding(padding Padding) *Writer {
	mod := w.clone()
	mod.padding = padding
	return mod
}

func (w *Writer) WithQuoteAllFields(quoteAllFields bool) *Writer {
	mod := w.clone()
	mod.quoteAllFields = quoteAllFields
	return mod
}

func (w *Writer) WithQuoteEmptyFields(quoteEmptyFields bool) *Writer {
	mod := w.clone()
	mod.quoteEmptyFields = quoteEmptyFields
	return mod
}

// WithNilValue returns a new writer that writes
// null-like values as nilValue.
func (w *Writer) WithNilValue(nilValue string) *Writer {
	mod := w.clone()
	mod.nilValue = nilValue
	return mod
}

func (w *Writer) WithDelimiter(delimiter rune) *Writer {
	mod := w.clone()
	mod.delimiter = delimiter
	return mod
}

func (w *Writer) WithNewLine(newLine string) *Writer {
	mod := w.clone()
	mod.newLine = newLine
	return mod
}

// WithEncoding returns a new writer that encodes
// the UTF-8 output with the charset encoding name.
// An empty name or "UTF-8" writes UTF-8.
func (w *Writer) WithEncoding(name string) (*Writer, error) {
	mod := w.clone()
	mod.encoding = nil
	if name == "" || name == "UTF-8" {
		return mod, nil
	}
	enc, err := charset.GetEncoding(name)
	if err != nil {
		return nil, err
	}
	mod.encoding = enc
	return mod, nil
}

func (w *Writer) Delimiter() rune { return w.delimiter }
func (w *Writer) NilValue() string { return w.nilValue }
func (w *Writer) NewLine() string { return w.newLine }
func (w *Writer) HeaderRow() bool { return w.headerRow }
func (w *Writer) Padding() Padding { return w.padding }
