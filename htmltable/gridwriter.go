package htmltable

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"maps"
	"net/url"
	"strconv"
	"strings"

	"github.com/hemolink/retable"
	"github.com/hemolink/retable/grid"
)

// Query parameters and form fields of the URLs
// rendered by GridWriter.
const (
	ParamQuery    = "q"
	ParamSort     = "sort"
	ParamPage     = "page"
	ParamPageSize = "size"
	FieldKey      = "key"
	FieldPage     = "page"
)

// SortParam returns the value of the sort query parameter
// for spec, an empty string for no sorting.
func SortParam(spec *grid.SortSpec) string {
	if spec == nil {
		return ""
	}
	return spec.Key + ":" + spec.Direction.String()
}

// ParseSortParam parses a sort query parameter
// formatted by SortParam.
func ParseSortParam(param string) (*grid.SortSpec, error) {
	if param == "" {
		return nil, nil
	}
	key, dir, ok := strings.Cut(param, ":")
	if !ok || key == "" {
		return nil, fmt.Errorf("invalid sort parameter %q", param)
	}
	switch dir {
	case grid.Ascending.String():
		return &grid.SortSpec{Key: key, Direction: grid.Ascending}, nil
	case grid.Descending.String():
		return &grid.SortSpec{Key: key, Direction: grid.Descending}, nil
	}
	return nil, fmt.Errorf("invalid sort direction %q", dir)
}

// GridContext is the data passed to the grid template.
type GridContext struct {
	Title             string
	TableClass        string
	BaseURL           string
	SelectURL         string
	Query             string
	SearchPlaceholder string
	Selectable        bool
	PageSelected      bool
	SelectedCount     int
	HasActions        bool
	ColSpan           int
	Empty             bool
	NoRowsText        string
	Headers           []HeaderContext
	Rows              []GridRowContext
	PageSizes         []PageSizeContext
	NavLinks          []NavLink

	Number     int
	TotalPages int
	TotalRows  int
	First      int
	Last       int
}

type HeaderContext struct {
	Key       string
	Title     string
	ClassName string
	Sortable  bool
	SortURL   string
	Indicator string
	AriaSort  string
}

type GridRowContext struct {
	Index        int
	Key          string
	Selected     bool
	ClickFormID  string
	ClickURL     string
	SelectFormID string
	Cells        []CellContext
	Actions      []ActionContext
}

type CellContext struct {
	ClassName string
	HTML      template.HTML
}

type ActionContext struct {
	Label     string
	Icon      string
	ClassName string
	FormID    string
	URL       string
}

type PageSizeContext struct {
	Size     int
	Selected bool
}

type NavLink struct {
	Label    string
	URL      string
	Disabled bool
}

// GridWriter writes the current page of a grid.Grid as HTML.
//
// The rendered links and forms address the following
// endpoints relative to the base URL passed to WritePage:
//
//	GET  base?q=...                 set the search query
//	GET  base?sort=key:asc          set the sort order, empty to clear
//	GET  base?page=n                go to page n
//	GET  base?size=n                set the page size
//	POST base/select                toggle row with form field key or
//	                                select (page=on) or unselect (page=off) the page
//	POST base/rows/{index}/click    click the visible row with index
//	POST base/actions/{label}/{index}
//
// GridWriter is immutable, all With* methods return
// a modified copy of the GridWriter.
type GridWriter[T any] struct {
	tableClass        string
	formatters        map[string]retable.CellFormatter
	nilValue          template.HTML
	noRowsText        string
	searchPlaceholder string
	template          *template.Template
}

// NewGridWriter returns a GridWriter using GridTemplate.
func NewGridWriter[T any]() *GridWriter[T] {
	return &GridWriter[T]{
		formatters:        make(map[string]retable.CellFormatter),
		noRowsText:        "No rows",
		searchPlaceholder: "Search...",
		template:          GridTemplate,
	}
}

// WritePage writes the current page of g as HTML to dest.
func (w *GridWriter[T]) WritePage(ctx context.Context, dest io.Writer, g *grid.Grid[T], baseURL string) error {
	data, err := w.Context(ctx, g, baseURL)
	if err != nil {
		return err
	}
	return w.template.Execute(dest, data)
}

// Context returns the template data for the current page of g.
func (w *GridWriter[T]) Context(ctx context.Context, g *grid.Grid[T], baseURL string) (*GridContext, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	var (
		page     = g.Page()
		pageView = g.PageView()
		columns  = g.Columns()
		actions  = g.Actions()
		sortSpec = g.Sort()
	)
	data := &GridContext{
		Title:             g.Title(),
		TableClass:        w.tableClass,
		BaseURL:           baseURL,
		SelectURL:         baseURL + "/select",
		Query:             g.Query(),
		SearchPlaceholder: w.searchPlaceholder,
		Selectable:        g.Selectable(),
		PageSelected:      g.PageSelected(),
		SelectedCount:     len(g.Selected()),
		HasActions:        len(actions) > 0,
		ColSpan:           g.ColSpan(),
		Empty:             page.Empty(),
		NoRowsText:        w.noRowsText,
		Number:            page.Number,
		TotalPages:        page.TotalPages,
		TotalRows:         page.TotalRows,
		First:             page.First,
		Last:              page.Last,
	}

	for i := range columns {
		col := &columns[i]
		header := HeaderContext{
			Key:       col.Key,
			Title:     col.HeaderTitle(),
			ClassName: col.ClassName,
			Sortable:  col.Sortable,
			AriaSort:  "none",
		}
		if col.Sortable {
			next := &grid.SortSpec{Key: col.Key, Direction: grid.Ascending}
			if sortSpec != nil && sortSpec.Key == col.Key {
				switch sortSpec.Direction {
				case grid.Ascending:
					header.Indicator = "▲"
					header.AriaSort = "ascending"
					next.Direction = grid.Descending
				case grid.Descending:
					header.Indicator = "▼"
					header.AriaSort = "descending"
					next = nil
				}
			}
			header.SortURL = paramURL(baseURL, ParamSort, SortParam(next))
		}
		data.Headers = append(data.Headers, header)
	}

	for i := range page.Rows {
		row := &page.Rows[i]
		rowCtx := GridRowContext{
			Index:        row.Index,
			Key:          row.Key,
			Selected:     row.Selected,
			ClickFormID:  fmt.Sprintf("click-%d", row.Index),
			ClickURL:     fmt.Sprintf("%s/rows/%d/click", baseURL, row.Index),
			SelectFormID: fmt.Sprintf("select-%d", row.Index),
			Cells:        make([]CellContext, len(columns)),
		}
		for c := range columns {
			html, err := w.formatCell(ctx, pageView, row.Index, c, columns[c].Key)
			if err != nil {
				return nil, fmt.Errorf("can't format column %q of row %q: %w", columns[c].Key, row.Key, err)
			}
			rowCtx.Cells[c] = CellContext{ClassName: columns[c].CellClassName, HTML: html}
		}
		for a := range actions {
			rowCtx.Actions = append(rowCtx.Actions, ActionContext{
				Label:     actions[a].Label,
				Icon:      actions[a].Icon,
				ClassName: actions[a].ClassName,
				FormID:    fmt.Sprintf("action-%d-%d", row.Index, a),
				URL:       fmt.Sprintf("%s/actions/%s/%d", baseURL, url.PathEscape(actions[a].Label), row.Index),
			})
		}
		data.Rows = append(data.Rows, rowCtx)
	}

	for _, size := range g.PageSizeOptions() {
		data.PageSizes = append(data.PageSizes, PageSizeContext{Size: size, Selected: size == page.Size})
	}

	data.NavLinks = []NavLink{
		{Label: "First", URL: pageURL(baseURL, 1), Disabled: !g.CanPrev()},
		{Label: "Prev", URL: pageURL(baseURL, page.Number-1), Disabled: !g.CanPrev()},
		{Label: "Next", URL: pageURL(baseURL, page.Number+1), Disabled: !g.CanNext()},
		{Label: "Last", URL: pageURL(baseURL, page.TotalPages), Disabled: !g.CanNext()},
	}
	return data, nil
}

func (w *GridWriter[T]) formatCell(ctx context.Context, view retable.View, row, col int, key string) (template.HTML, error) {
	writer := Writer{nilValue: w.nilValue}
	if f := w.formatters[key]; f != nil {
		writer.columnFormatters = map[int]retable.CellFormatter{col: f}
	}
	return writer.FormatCell(ctx, view, row, col)
}

func paramURL(baseURL, param, value string) string {
	return baseURL + "?" + url.Values{param: {value}}.Encode()
}

func pageURL(baseURL string, page int) string {
	return paramURL(baseURL, ParamPage, strconv.Itoa(max(page, 1)))
}

func (w *GridWriter[T]) clone() *GridWriter[T] {
	c := new(GridWriter[T])
	*c = *w
	return c
}

// WithTableClass returns a new writer with the CSS class
// of the <table> element.
func (w *GridWriter[T]) WithTableClass(tableClass string) *GridWriter[T] {
	mod := w.clone()
	mod.tableClass = tableClass
	return mod
}

// WithColumnFormatter returns a new writer with the formatter
// registered for the column with columnKey.
// Passing nil removes a previously registered formatter.
func (w *GridWriter[T]) WithColumnFormatter(columnKey string, formatter retable.CellFormatter) *GridWriter[T] {
	mod := w.clone()
	mod.formatters = make(map[string]retable.CellFormatter, len(w.formatters)+1)
	maps.Copy(mod.formatters, w.formatters)
	if formatter != nil {
		mod.formatters[columnKey] = formatter
	} else {
		delete(mod.formatters, columnKey)
	}
	return mod
}

// WithNilValue returns a new writer that writes
// null-like cell values as nilValue.
func (w *GridWriter[T]) WithNilValue(nilValue template.HTML) *GridWriter[T] {
	mod := w.clone()
	mod.nilValue = nilValue
	return mod
}

// WithNoRowsText returns a new writer with the text
// of the placeholder row shown for an empty page.
func (w *GridWriter[T]) WithNoRowsText(text string) *GridWriter[T] {
	mod := w.clone()
	mod.noRowsText = text
	return mod
}

// WithSearchPlaceholder returns a new writer with the
// placeholder text of the search input.
func (w *GridWriter[T]) WithSearchPlaceholder(text string) *GridWriter[T] {
	mod := w.clone()
	mod.searchPlaceholder = text
	return mod
}

// WithTemplate returns a new writer executing tmpl with a *GridContext.
func (w *GridWriter[T]) WithTemplate(tmpl *template.Template) *GridWriter[T] {
	mod := w.clone()
	mod.template = tmpl
	return mod
}
