package grid

import "slices"

// Selected returns the keys of all selected rows
// in the order they were selected.
func (g *Grid[T]) Selected() []string {
	return slices.Clone(g.selection)
}

// IsSelected returns if the row with key is selected.
func (g *Grid[T]) IsSelected(key string) bool {
	_, ok := g.selected[key]
	return ok
}

// ToggleRow toggles the selection of the row with key
// and calls OnSelectionChange. Does nothing if the grid
// is not selectable.
func (g *Grid[T]) ToggleRow(key string) {
	if !g.config.Selectable {
		return
	}
	if g.IsSelected(key) {
		g.unselect(key)
	} else {
		g.selectKey(key)
	}
	g.selectionChanged()
}

// PageSelected returns if the current page has rows
// and all of them are selected.
func (g *Grid[T]) PageSelected() bool {
	indices := g.pageIndices()
	if len(indices) == 0 {
		return false
	}
	for _, i := range indices {
		if !g.IsSelected(g.recordKey(g.data[i])) {
			return false
		}
	}
	return true
}

// SetPageSelected adds the keys of all rows of the
// current page to the selection if selected is true,
// or removes exactly those keys if it is false.
// Selections on other pages are kept.
func (g *Grid[T]) SetPageSelected(selected bool) {
	if !g.config.Selectable {
		return
	}
	for _, i := range g.pageIndices() {
		key := g.recordKey(g.data[i])
		if selected {
			g.selectKey(key)
		} else {
			g.unselect(key)
		}
	}
	g.selectionChanged()
}

// ClearSelection removes all keys from the selection.
func (g *Grid[T]) ClearSelection() {
	if len(g.selection) == 0 {
		return
	}
	clear(g.selected)
	g.selection = g.selection[:0]
	g.selectionChanged()
}

func (g *Grid[T]) selectKey(key string) {
	if g.IsSelected(key) {
		return
	}
	g.selected[key] = struct{}{}
	g.selection = append(g.selection, key)
}

func (g *Grid[T]) unselect(key string) {
	if !g.IsSelected(key) {
		return
	}
	delete(g.selected, key)
	g.selection = slices.DeleteFunc(g.selection, func(k string) bool { return k == key })
}

func (g *Grid[T]) selectionChanged() {
	if g.config.OnSelectionChange != nil {
		g.config.OnSelectionChange(g.Selected())
	}
}
