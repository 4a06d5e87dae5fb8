package retable

var _ View = new(IndexedView)

// IndexedView shows the rows of Source in the order
// given by Indices, every element being a row index
// into Source. Rows of Source not referenced by Indices
// are not part of the view.
type IndexedView struct {
	Source  View
	Indices []int
}

// NewIndexedView returns an IndexedView
// of the source rows selected by indices.
func NewIndexedView(source View, indices []int) *IndexedView {
	return &IndexedView{Source: source, Indices: indices}
}

func (view *IndexedView) Title() string     { return view.Source.Title() }
func (view *IndexedView) Columns() []string { return view.Source.Columns() }
func (view *IndexedView) NumRows() int      { return len(view.Indices) }

// SourceRow returns the index of the Source row
// shown at row or -1 if row is out of bounds.
func (view *IndexedView) SourceRow(row int) int {
	if row < 0 || row >= len(view.Indices) {
		return -1
	}
	return view.Indices[row]
}

func (view *IndexedView) Cell(row, col int) any {
	if row < 0 || row >= len(view.Indices) {
		return nil
	}
	return view.Source.Cell(view.Indices[row], col)
}
