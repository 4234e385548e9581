package state

// Marks let a list act on several rows at once (toggle or delete every
// marked task). They are keyed by item id so they survive filtering and
// refreshes, and are pruned when the item disappears.

func (l *Level) pruneMarks() {
	for id := range l.Marked {
		if l.indexInFull(id) < 0 {
			delete(l.Marked, id)
		}
	}
}

func (l *Level) indexInFull(id string) int {
	for i := range l.Full {
		if l.Full[i].ID == id {
			return i
		}
	}
	return -1
}

// IsMarked reports whether id is marked.
func (l *Level) IsMarked(id string) bool {
	_, ok := l.Marked[id]
	return ok
}

// ToggleMark flips the mark on id.
func (l *Level) ToggleMark(id string) {
	if l.Marked == nil {
		l.Marked = make(map[string]struct{})
	}
	if l.IsMarked(id) {
		delete(l.Marked, id)
		return
	}
	l.Marked[id] = struct{}{}
}

// ToggleMarkAtCursor flips the mark on the row under the cursor. Lists that
// are not MultiSelect ignore it.
func (l *Level) ToggleMarkAtCursor() {
	if !l.MultiSelect {
		return
	}
	if item, ok := l.Current(); ok {
		l.ToggleMark(item.ID)
	}
}

// ClearMarks removes every mark.
func (l *Level) ClearMarks() {
	clear(l.Marked)
}

// MarkedItems returns the marked rows that pass the current filter, in
// display order.
func (l *Level) MarkedItems() []Item {
	if len(l.Marked) == 0 {
		return nil
	}
	var marked []Item
	for _, item := range l.Items {
		if l.IsMarked(item.ID) {
			marked = append(marked, item)
		}
	}
	return marked
}
