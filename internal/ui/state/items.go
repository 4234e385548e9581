package state

// Item is a row in a list level.
type Item struct {
	ID    string
	Label string
	// Search holds extra text matched by the filter but not displayed.
	Search string
}

func (i Item) haystack() string {
	if i.Search == "" {
		return i.Label
	}
	return i.Label + " " + i.Search
}

// CloneItems produces a shallow copy of the provided items.
func CloneItems(items []Item) []Item {
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}
