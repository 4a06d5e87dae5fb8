package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors of the terminal viewer.
type Theme struct {
	TitleForeground lipgloss.Color
	FaintText       lipgloss.Color

	HeaderForeground lipgloss.Color
	// Header of the column under the cursor.
	ColumnCursorForeground lipgloss.Color

	CursorBackground   lipgloss.Color
	SelectedForeground lipgloss.Color

	BorderColor lipgloss.Color
}

// DefaultTheme uses the console's blood red accent.
var DefaultTheme = Theme{
	TitleForeground:        lipgloss.Color("#c0392b"),
	FaintText:              lipgloss.Color("#808080"),
	HeaderForeground:       lipgloss.Color("#e0e0e0"),
	ColumnCursorForeground: lipgloss.Color("#ff6f61"),
	CursorBackground:       lipgloss.Color("#3a3a3a"),
	SelectedForeground:     lipgloss.Color("#f5b7b1"),
	BorderColor:            lipgloss.Color("#8a0303"),
}

type styles struct {
	title        lipgloss.Style
	faint        lipgloss.Style
	header       lipgloss.Style
	columnCursor lipgloss.Style
	cursor       lipgloss.Style
	selected     lipgloss.Style
	detail       lipgloss.Style
}

func (theme Theme) styles() styles {
	return styles{
		title:        lipgloss.NewStyle().Bold(true).Foreground(theme.TitleForeground),
		faint:        lipgloss.NewStyle().Foreground(theme.FaintText),
		header:       lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground),
		columnCursor: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(theme.ColumnCursorForeground),
		cursor:       lipgloss.NewStyle().Background(theme.CursorBackground),
		selected:     lipgloss.NewStyle().Foreground(theme.SelectedForeground),
		detail: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.BorderColor).
			Padding(0, 1),
	}
}
