package htmltable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/hemolink/retable"
)

var (
	// HTMLPreCellFormatter writes the escaped cell value within a <pre> element.
	HTMLPreCellFormatter retable.CellFormatterFunc = func(ctx context.Context, view retable.View, row, col int) (str string, raw bool, err error) {
		value, ok := escapedCell(view, row, col)
		if !ok {
			return "", false, errors.ErrUnsupported
		}
		return "<pre>" + value + "</pre>", true, nil
	}

	// HTMLCodeCellFormatter writes the escaped cell value within a <code> element.
	HTMLCodeCellFormatter retable.CellFormatterFunc = func(ctx context.Context, view retable.View, row, col int) (str string, raw bool, err error) {
		value, ok := escapedCell(view, row, col)
		if !ok {
			return "", false, errors.ErrUnsupported
		}
		return "<code>" + value + "</code>", true, nil
	}

	// ValueAsHTMLAnchorCellFormatter escapes the cell value and returns
	// an HTML anchor element with the value as id and inner text.
	ValueAsHTMLAnchorCellFormatter retable.CellFormatterFunc = func(ctx context.Context, view retable.View, row, col int) (str string, raw bool, err error) {
		value, ok := escapedCell(view, row, col)
		if !ok {
			return "", false, errors.ErrUnsupported
		}
		return fmt.Sprintf("<a id='%[1]s'>%[1]s</a>", value), true, nil
	}

	_ retable.CellFormatter = JSONCellFormatter("")
	_ retable.CellFormatter = HTMLSpanClassCellFormatter("")
)

func escapedCell(view retable.View, row, col int) (string, bool) {
	val := view.Cell(row, col)
	if retable.IsNullLike(val) {
		return "", false
	}
	return template.HTMLEscapeString(retable.CellString(val)), true
}

// JSONCellFormatter writes JSON cell values indented
// with the underlying string within a <pre> element.
// Strings, byte slices and json.RawMessage are expected to
// contain JSON, other values are marshalled as JSON.
// Strings that are not valid JSON are written escaped
// within the <pre> element without reformatting.
type JSONCellFormatter string

func (indent JSONCellFormatter) FormatCell(ctx context.Context, view retable.View, row, col int) (str string, raw bool, err error) {
	var src []byte
	switch x := view.Cell(row, col).(type) {
	case nil:
		return "", false, errors.ErrUnsupported
	case string:
		src = []byte(x)
	case []byte:
		src = x
	case json.RawMessage:
		src = x
	default:
		if retable.IsNullLike(x) {
			return "", false, errors.ErrUnsupported
		}
		src, err = json.Marshal(x)
		if err != nil {
			return "", false, err
		}
	}
	if len(bytes.TrimSpace(src)) == 0 {
		return "", false, errors.ErrUnsupported
	}
	if !json.Valid(src) {
		// Free text in a JSON column is shown as is
		return "<pre>" + template.HTMLEscapeString(string(src)) + "</pre>", true, nil
	}
	var buf bytes.Buffer
	if indent == "" {
		err = json.Compact(&buf, src)
	} else {
		err = json.Indent(&buf, src, "", string(indent))
	}
	if err != nil {
		return "", false, err
	}
	return "<pre>" + template.HTMLEscapeString(buf.String()) + "</pre>", true, nil
}

// HTMLSpanClassCellFormatter writes the escaped cell value within
// an HTML span element with the underlying string as class.
type HTMLSpanClassCellFormatter string

func (class HTMLSpanClassCellFormatter) FormatCell(ctx context.Context, view retable.View, row, col int) (str string, raw bool, err error) {
	text, ok := escapedCell(view, row, col)
	if !ok {
		return "", false, errors.ErrUnsupported
	}
	return fmt.Sprintf("<span class='%s'>%s</span>", template.HTMLEscapeString(string(class)), text), true, nil
}

// FormatterByName returns the cell formatter for a name
// used in configuration files:
//
//	pre, code, anchor, json, span:<class>
//
// An empty name returns nil.
func FormatterByName(name string) (retable.CellFormatter, error) {
	switch name {
	case "":
		return nil, nil
	case "pre":
		return HTMLPreCellFormatter, nil
	case "code":
		return HTMLCodeCellFormatter, nil
	case "anchor":
		return ValueAsHTMLAnchorCellFormatter, nil
	case "json":
		return JSONCellFormatter("  "), nil
	}
	if class, ok := strings.CutPrefix(name, "span:"); ok && class != "" {
		return HTMLSpanClassCellFormatter(class), nil
	}
	return nil, fmt.Errorf("unknown cell format %q", name)
}
