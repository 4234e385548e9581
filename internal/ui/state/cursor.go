package state

// clampIndex limits i to [lo, hi]. When hi < lo the result is lo.
func clampIndex(i, lo, hi int) int {
	if i > hi {
		i = hi
	}
	if i < lo {
		i = lo
	}
	return i
}

// MoveCursorHome moves the cursor to the first row.
func (l *Level) MoveCursorHome() bool {
	return l.setCursor(0)
}

// MoveCursorEnd moves the cursor to the last row.
func (l *Level) MoveCursorEnd() bool {
	return l.setCursor(len(l.Items) - 1)
}

// MoveCursorPageUp moves the cursor up by one screen of rows.
func (l *Level) MoveCursorPageUp(rows int) bool {
	return l.moveCursorBy(-l.pageSize(rows))
}

// MoveCursorPageDown moves the cursor down by one screen of rows.
func (l *Level) MoveCursorPageDown(rows int) bool {
	return l.moveCursorBy(l.pageSize(rows))
}

func (l *Level) moveCursorBy(delta int) bool {
	from := l.Cursor
	if from < 0 {
		from = 0
	}
	return l.setCursor(from + delta)
}

// setCursor places the cursor on target, clamped to the visible rows, and
// reports whether it moved.
func (l *Level) setCursor(target int) bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	before := l.Cursor
	l.Cursor = clampIndex(target, 0, len(l.Items)-1)
	return l.Cursor != before
}

// pageSize is the number of rows a page key jumps. Unknown or oversized
// screens jump the whole list.
func (l *Level) pageSize(rows int) int {
	if rows <= 0 || rows > len(l.Items) {
		return len(l.Items)
	}
	return rows
}

// EnsureCursorVisible scrolls the viewport the least amount needed to keep
// the cursor on screen. rows <= 0 means everything fits.
func (l *Level) EnsureCursorVisible(rows int) {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	l.Cursor = clampIndex(l.Cursor, 0, n-1)
	if rows <= 0 {
		l.ViewportOffset = 0
		return
	}
	offset := l.ViewportOffset
	switch {
	case l.Cursor < offset:
		offset = l.Cursor
	case l.Cursor >= offset+rows:
		offset = l.Cursor - rows + 1
	}
	l.ViewportOffset = clampIndex(offset, 0, n-rows)
}
