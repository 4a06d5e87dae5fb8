package retable

// ViewWithTitle returns a View that passes through
// all methods of source except Title.
func ViewWithTitle(source View, title string) View {
	return viewWithTitle{source: source, title: title}
}

type viewWithTitle struct {
	source View
	title  string
}

func (v viewWithTitle) Title() string         { return v.title }
func (v viewWithTitle) Columns() []string     { return v.source.Columns() }
func (v viewWithTitle) NumRows() int          { return v.source.NumRows() }
func (v viewWithTitle) Cell(row, col int) any { return v.source.Cell(row, col) }
