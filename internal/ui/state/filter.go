package state

import (
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SetFilter replaces the query and places the editing cursor at rune offset
// cursor. Starting a filter remembers the list cursor; clearing it restores
// that row.
func (l *Level) SetFilter(query string, cursor int) {
	was := strings.TrimSpace(l.Filter) != ""
	now := strings.TrimSpace(query) != ""

	l.Filter = query
	l.FilterCursor = clampIndex(cursor, 0, len([]rune(query)))
	if now && !was {
		l.LastCursor = l.Cursor
	}
	if now {
		l.Cursor = 0
	}
	l.applyFilter()

	switch {
	case now:
		if idx := BestMatchIndex(l.Items, query); idx >= 0 {
			l.Cursor = idx
		}
	case was:
		if l.LastCursor >= 0 && l.LastCursor < len(l.Items) {
			l.Cursor = l.LastCursor
		} else if len(l.Items) > 0 {
			l.Cursor = len(l.Items) - 1
		}
		l.LastCursor = -1
	}
}

func (l *Level) applyFilter() {
	l.Items = FilterItems(l.Full, l.Filter)
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	if l.Cursor < 0 || l.Cursor >= n {
		l.Cursor = n - 1
	}
	if l.ViewportOffset >= n {
		l.ViewportOffset = 0
	}
}

// FilterCursorPos returns the editing cursor as a rune offset into Filter.
func (l *Level) FilterCursorPos() int {
	return clampIndex(l.FilterCursor, 0, len([]rune(l.Filter)))
}

// editFilter splices replacement into runes [from, to) of the query and
// leaves the editing cursor after it.
func (l *Level) editFilter(from, to int, replacement []rune) {
	runes := []rune(l.Filter)
	out := make([]rune, 0, len(runes)-(to-from)+len(replacement))
	out = append(out, runes[:from]...)
	out = append(out, replacement...)
	out = append(out, runes[to:]...)
	l.SetFilter(string(out), from+len(replacement))
}

// moveFilterCursor sets the editing cursor and reports whether it moved.
func (l *Level) moveFilterCursor(to int) bool {
	if to == l.FilterCursorPos() {
		return false
	}
	l.FilterCursor = to
	return true
}

// wordStartBefore returns the offset of the word that ends at or before pos.
func wordStartBefore(runes []rune, pos int) int {
	for pos > 0 && unicode.IsSpace(runes[pos-1]) {
		pos--
	}
	for pos > 0 && !unicode.IsSpace(runes[pos-1]) {
		pos--
	}
	return pos
}

// wordStartAfter returns the offset of the next word after pos.
func wordStartAfter(runes []rune, pos int) int {
	for pos < len(runes) && !unicode.IsSpace(runes[pos]) {
		pos++
	}
	for pos < len(runes) && unicode.IsSpace(runes[pos]) {
		pos++
	}
	return pos
}

// InsertFilterText types text at the editing cursor.
func (l *Level) InsertFilterText(text string) bool {
	if text == "" {
		return false
	}
	pos := l.FilterCursorPos()
	l.editFilter(pos, pos, []rune(text))
	return true
}

// DeleteFilterRuneBackward is backspace.
func (l *Level) DeleteFilterRuneBackward() bool {
	pos := l.FilterCursorPos()
	if pos == 0 {
		return false
	}
	l.editFilter(pos-1, pos, nil)
	return true
}

// DeleteFilterWordBackward is ctrl+w.
func (l *Level) DeleteFilterWordBackward() bool {
	pos := l.FilterCursorPos()
	if pos == 0 {
		return false
	}
	l.editFilter(wordStartBefore([]rune(l.Filter), pos), pos, nil)
	return true
}

func (l *Level) MoveFilterCursorStart() bool { return l.moveFilterCursor(0) }

func (l *Level) MoveFilterCursorEnd() bool { return l.moveFilterCursor(len([]rune(l.Filter))) }

func (l *Level) MoveFilterCursorWordBackward() bool {
	return l.moveFilterCursor(wordStartBefore([]rune(l.Filter), l.FilterCursorPos()))
}

func (l *Level) MoveFilterCursorWordForward() bool {
	return l.moveFilterCursor(wordStartAfter([]rune(l.Filter), l.FilterCursorPos()))
}

func (l *Level) MoveFilterCursorRuneBackward() bool {
	pos := l.FilterCursorPos()
	return pos > 0 && l.moveFilterCursor(pos-1)
}

func (l *Level) MoveFilterCursorRuneForward() bool {
	pos := l.FilterCursorPos()
	return pos < len([]rune(l.Filter)) && l.moveFilterCursor(pos+1)
}

// FilterItems keeps the items whose search text fuzzily matches query, in
// their original order. When nothing matches fuzzily it falls back to a
// plain substring match on the label and id.
func FilterItems(items []Item, query string) []Item {
	q := strings.TrimSpace(query)
	if q == "" {
		return CloneItems(items)
	}
	haystacks := make([]string, len(items))
	for i, item := range items {
		haystacks[i] = item.haystack()
	}
	hit := make([]bool, len(items))
	matched := false
	for _, rank := range fuzzy.RankFindNormalizedFold(q, haystacks) {
		hit[rank.OriginalIndex] = true
		matched = true
	}
	if !matched {
		lower := strings.ToLower(q)
		for i, item := range items {
			hit[i] = strings.Contains(strings.ToLower(haystacks[i]), lower) ||
				strings.Contains(strings.ToLower(item.ID), lower)
		}
	}
	out := make([]Item, 0, len(items))
	for i, item := range items {
		if hit[i] {
			out = append(out, item)
		}
	}
	return CloneItems(out)
}

// BestMatchIndex picks the row the cursor should land on for query: an
// exact label or id match, then a label prefix, then any substring, then the
// closest fuzzy match. It returns -1 only for an empty list.
func BestMatchIndex(items []Item, query string) int {
	if len(items) == 0 {
		return -1
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}
	tiers := []func(label, id string) bool{
		func(label, id string) bool { return label == q || id == q },
		func(label, _ string) bool { return strings.HasPrefix(label, q) },
		func(label, id string) bool { return strings.Contains(label, q) || strings.Contains(id, q) },
	}
	for _, match := range tiers {
		for i, item := range items {
			if match(strings.ToLower(item.Label), strings.ToLower(item.ID)) {
				return i
			}
		}
	}
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	best := -1
	bestDistance := 0
	for _, rank := range fuzzy.RankFindNormalizedFold(q, labels) {
		if best < 0 || rank.Distance < bestDistance ||
			(rank.Distance == bestDistance && rank.OriginalIndex < best) {
			best, bestDistance = rank.OriginalIndex, rank.Distance
		}
	}
	if best < 0 {
		return 0
	}
	return best
}
