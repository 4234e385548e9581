// Package state holds the per-list UI state: rows, cursor, viewport, fuzzy
// filter and marks.
package state

// Level is one list as the user sees it. Full holds every row; Items is the
// filtered view of Full that the cursor indexes into.
type Level struct {
	ID    string
	Title string

	Full  []Item
	Items []Item

	Cursor         int
	ViewportOffset int
	// LastCursor is the row to return to when the filter is cleared, or -1.
	LastCursor int

	Filter       string
	FilterCursor int

	MultiSelect bool
	Marked      map[string]struct{}
}

// NewLevel returns a level over items with the cursor on the first row.
func NewLevel(id, title string, items []Item) *Level {
	l := &Level{ID: id, Title: title, LastCursor: -1, Marked: map[string]struct{}{}}
	l.UpdateItems(items)
	return l
}

// IndexOf returns the position of id among the visible rows, or -1.
func (l *Level) IndexOf(id string) int {
	for i := range l.Items {
		if l.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// UpdateItems swaps in a fresh set of rows. The filter is re-applied, marks
// on vanished rows are dropped and the scroll position is kept when it still
// fits.
func (l *Level) UpdateItems(items []Item) {
	offset := l.ViewportOffset
	l.Full = CloneItems(items)
	l.pruneMarks()
	l.applyFilter()
	if offset < 0 || offset >= len(l.Items) {
		offset = 0
	}
	l.ViewportOffset = offset
}

// Current returns the row under the cursor.
func (l *Level) Current() (Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return Item{}, false
	}
	return l.Items[l.Cursor], true
}

// Select puts the cursor on the visible row with id.
func (l *Level) Select(id string) bool {
	i := l.IndexOf(id)
	if i < 0 {
		return false
	}
	l.Cursor = i
	return true
}

// MoveCursor moves the cursor by delta rows, stopping at either end.
func (l *Level) MoveCursor(delta int) bool {
	return l.moveCursorBy(delta)
}
