// Package tui implements a terminal viewer for a grid.Grid
// using bubbletea.
//
// The Model only translates key presses into grid operations
// and renders the current page, all view state lives in the grid.
package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hemolink/retable"
	"github.com/hemolink/retable/grid"
)

// DefaultMaxColumnWidth is the width wider cells are cut to.
const DefaultMaxColumnWidth = 32

const columnGap = "  "

// Options configures a Model, zero values use the defaults.
type Options struct {
	Keys           *KeyMap
	Theme          *Theme
	MaxColumnWidth int
}

// Model is a tea.Model showing the current page of a grid.
type Model[T any] struct {
	grid           *grid.Grid[T]
	keys           KeyMap
	styles         styles
	help           help.Model
	maxColumnWidth int

	search    textinput.Model
	searching bool

	column int // column cursor
	row    int // row cursor within the page
	// detail is the last clicked row.
	detail *grid.Row[T]
	width  int
}

// New returns a Model for g.
func New[T any](g *grid.Grid[T], opts Options) Model[T] {
	keys := DefaultKeyMap
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	theme := DefaultTheme
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	maxColumnWidth := opts.MaxColumnWidth
	if maxColumnWidth <= 0 {
		maxColumnWidth = DefaultMaxColumnWidth
	}

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search..."
	search.CharLimit = 100
	search.SetValue(g.Query())

	return Model[T]{
		grid:           g,
		keys:           keys,
		styles:         theme.styles(),
		help:           help.New(),
		maxColumnWidth: maxColumnWidth,
		search:         search,
	}
}

// Grid returns the grid shown by the model.
func (m Model[T]) Grid() *grid.Grid[T] { return m.grid }

// Searching returns if key presses go to the search input.
func (m Model[T]) Searching() bool { return m.searching }

// Cursor returns the column and row cursor.
func (m Model[T]) Cursor() (column, row int) { return m.column, m.row }

// Detail returns the record of the last clicked row
// unless the detail was closed.
func (m Model[T]) Detail() (record T, ok bool) {
	if m.detail == nil {
		return record, false
	}
	return m.detail.Record, true
}

// Init implements tea.Model.
func (m Model[T]) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model[T]) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.grid.SetQuery("")
		m.clampCursor()
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.grid.SetQuery(strings.TrimSpace(m.search.Value()))
	m.clampCursor()
	return m, cmd
}

func (m Model[T]) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := m.grid.Page()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Sort):
		m.toggleSort(m.column)

	case key.Matches(msg, m.keys.SortColumn):
		m.toggleSort(int(msg.String()[0] - '1'))

	case key.Matches(msg, m.keys.Left):
		m.column--

	case key.Matches(msg, m.keys.Right):
		m.column++

	case key.Matches(msg, m.keys.Up):
		m.row--

	case key.Matches(msg, m.keys.Down):
		m.row++

	case key.Matches(msg, m.keys.NextPage):
		if m.grid.NextPage() {
			m.row = 0
		}

	case key.Matches(msg, m.keys.PrevPage):
		if m.grid.PrevPage() {
			m.row = 0
		}

	case key.Matches(msg, m.keys.FirstPage):
		if m.grid.FirstPage() {
			m.row = 0
		}

	case key.Matches(msg, m.keys.LastPage):
		if m.grid.LastPage() {
			m.row = 0
		}

	case key.Matches(msg, m.keys.GrowPage):
		m.cyclePageSize(1)

	case key.Matches(msg, m.keys.ShrinkPage):
		m.cyclePageSize(-1)

	case key.Matches(msg, m.keys.Select):
		if m.grid.Selectable() && m.row < len(page.Rows) {
			m.grid.ToggleRow(page.Rows[m.row].Key)
		}

	case key.Matches(msg, m.keys.SelectPage):
		if m.grid.Selectable() {
			m.grid.SetPageSelected(!m.grid.PageSelected())
		}

	case key.Matches(msg, m.keys.Click):
		if m.row < len(page.Rows) && m.grid.ClickRow(m.row) == nil {
			row := page.Rows[m.row]
			m.detail = &row
		}

	case key.Matches(msg, m.keys.CloseDetail):
		m.detail = nil
	}
	m.clampCursor()
	return m, nil
}

func (m *Model[T]) toggleSort(column int) {
	columns := m.grid.Columns()
	if column < 0 || column >= len(columns) {
		return
	}
	m.column = column
	m.grid.ToggleSort(columns[column].Key)
}

func (m *Model[T]) cyclePageSize(step int) {
	options := m.grid.PageSizeOptions()
	i := slices.Index(options, m.grid.PageSize()) + step
	if i < 0 || i >= len(options) {
		return
	}
	if m.grid.SetPageSize(options[i]) == nil {
		m.row = 0
	}
}

func (m *Model[T]) clampCursor() {
	m.column = max(min(m.column, len(m.grid.Columns())-1), 0)
	m.row = max(min(m.row, len(m.grid.Page().Rows)-1), 0)
}

// View implements tea.Model.
func (m Model[T]) View() string {
	page := m.grid.Page()

	var b strings.Builder
	b.WriteString(m.styles.title.Render(m.grid.Title()))
	b.WriteByte('\n')
	switch {
	case m.searching:
		b.WriteString(m.search.View())
		b.WriteByte('\n')
	case m.grid.Query() != "":
		b.WriteString(m.styles.faint.Render("/" + m.grid.Query()))
		b.WriteByte('\n')
	}
	b.WriteString(m.table(page))
	b.WriteString(m.footer(page))
	b.WriteByte('\n')
	if m.detail != nil {
		b.WriteString(m.detailView())
		b.WriteByte('\n')
	}
	b.WriteString(m.help.View(m.keys))

	if m.width > 0 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
	}
	return b.String()
}

func (m Model[T]) table(page *grid.Page[T]) string {
	var (
		columns = m.grid.Columns()
		sort    = m.grid.Sort()
		rows    = make([][]string, 0, len(page.Rows)+1)
		header  = make([]string, len(columns))
	)
	for i := range columns {
		header[i] = columns[i].HeaderTitle()
		if sort != nil && sort.Key == columns[i].Key {
			header[i] += " " + sortIndicator(sort.Direction)
		}
	}
	rows = append(rows, header)
	for _, row := range page.Rows {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = retable.CellString(cell)
		}
		rows = append(rows, cells)
	}
	widths := retable.StringColumnWidths(rows, len(columns))
	for i := range widths {
		widths[i] = min(widths[i], m.maxColumnWidth)
	}

	var b strings.Builder
	for r, cells := range rows {
		var line strings.Builder
		if m.grid.Selectable() {
			checked := m.grid.PageSelected()
			if r > 0 {
				checked = page.Rows[r-1].Selected
			}
			line.WriteString(checkbox(checked))
			line.WriteString(" ")
		}
		for c, cell := range cells {
			style := lipgloss.NewStyle().Width(widths[c]).MaxHeight(1)
			if r == 0 {
				headerStyle := m.styles.header
				if c == m.column {
					headerStyle = m.styles.columnCursor
				}
				style = style.Inherit(headerStyle)
			}
			if c > 0 {
				line.WriteString(columnGap)
			}
			line.WriteString(style.Render(cell))
		}
		rendered := line.String()
		if r > 0 {
			if page.Rows[r-1].Selected {
				rendered = m.styles.selected.Render(rendered)
			}
			if r-1 == m.row {
				rendered = m.styles.cursor.Render(rendered)
			}
		}
		b.WriteString(rendered)
		b.WriteByte('\n')
	}
	if page.Empty() {
		b.WriteString(m.styles.faint.Render("No rows"))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model[T]) footer(page *grid.Page[T]) string {
	summary := "0 rows"
	if !page.Empty() {
		summary = fmt.Sprintf("%d-%d of %d", page.First, page.Last, page.TotalRows)
	}
	parts := []string{
		summary,
		fmt.Sprintf("page %d/%d", page.Number, page.TotalPages),
		fmt.Sprintf("%d per page", page.Size),
	}
	if m.grid.Selectable() {
		parts = append(parts, fmt.Sprintf("%d selected", len(m.grid.Selected())))
	}
	return m.styles.faint.Render(strings.Join(parts, " · "))
}

func (m Model[T]) detailView() string {
	keys, values := retable.RecordFields(m.detail.Record, nil)
	width := 0
	for _, k := range keys {
		width = max(width, lipgloss.Width(k))
	}
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = fmt.Sprintf("%-*s  %s", width, k, retable.CellString(values[i]))
	}
	return m.styles.detail.Render(strings.Join(lines, "\n"))
}

func sortIndicator(direction grid.Direction) string {
	if direction == grid.Descending {
		return "▼"
	}
	return "▲"
}

func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}
