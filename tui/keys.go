package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the terminal viewer.
type KeyMap struct {
	// Column cursor.
	Left  key.Binding
	Right key.Binding
	// Row cursor within the page.
	Up   key.Binding
	Down key.Binding

	Search key.Binding
	// Sort toggles the sort of the column under the cursor,
	// SortColumn the sort of the column with the pressed number.
	Sort       key.Binding
	SortColumn key.Binding

	NextPage  key.Binding
	PrevPage  key.Binding
	FirstPage key.Binding
	LastPage  key.Binding
	// Page size cycling through the grid's options.
	GrowPage   key.Binding
	ShrinkPage key.Binding

	Select     key.Binding
	SelectPage key.Binding
	Click      key.Binding
	// CloseDetail hides the record of the last clicked row.
	CloseDetail key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "prev column"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→", "next column"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓", "down"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Sort: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sort"),
	),
	SortColumn: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("1-9", "sort column"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("n", "pgdown"),
		key.WithHelp("n", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("p", "pgup"),
		key.WithHelp("p", "prev page"),
	),
	FirstPage: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "first page"),
	),
	LastPage: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "last page"),
	),
	GrowPage: key.NewBinding(
		key.WithKeys("+"),
		key.WithHelp("+", "more rows"),
	),
	ShrinkPage: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "fewer rows"),
	),
	Select: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "select"),
	),
	SelectPage: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "select page"),
	),
	Click: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	CloseDetail: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Sort, k.NextPage, k.PrevPage, k.Select, k.Click, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Search, k.Sort, k.SortColumn},
		{k.NextPage, k.PrevPage, k.FirstPage, k.LastPage, k.GrowPage, k.ShrinkPage},
		{k.Select, k.SelectPage, k.Click, k.CloseDetail, k.Quit},
	}
}
