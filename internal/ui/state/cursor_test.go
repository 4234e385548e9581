package state

import "testing"

func newTestLevel(ids ...string) *Level {
	items := make([]Item, len(ids))
	for i, id := range ids {
		items[i] = Item{ID: id, Label: id}
	}
	return NewLevel("tasks", "Tasks", items)
}

func TestCursorKeys(t *testing.T) {
	steps := []struct {
		name  string
		move  func(*Level) bool
		moved bool
		want  int
	}{
		{"end", (*Level).MoveCursorEnd, true, 4},
		{"end again", (*Level).MoveCursorEnd, false, 4},
		{"page up", func(l *Level) bool { return l.MoveCursorPageUp(2) }, true, 2},
		{"page up past start", func(l *Level) bool { return l.MoveCursorPageUp(10) }, true, 0},
		{"page down", func(l *Level) bool { return l.MoveCursorPageDown(3) }, true, 3},
		{"page down unknown height", func(l *Level) bool { return l.MoveCursorPageDown(0) }, true, 4},
		{"home", (*Level).MoveCursorHome, true, 0},
		{"up at top", func(l *Level) bool { return l.MoveCursor(-1) }, false, 0},
	}
	l := newTestLevel("a", "b", "c", "d", "e")
	for _, step := range steps {
		if got := step.move(l); got != step.moved {
			t.Fatalf("%s: moved=%v, want %v", step.name, got, step.moved)
		}
		if l.Cursor != step.want {
			t.Fatalf("%s: cursor=%d, want %d", step.name, l.Cursor, step.want)
		}
	}
}

func TestCursorKeysOnEmptyList(t *testing.T) {
	l := newTestLevel()
	l.Cursor = 5
	if l.MoveCursorHome() || l.MoveCursorEnd() || l.MoveCursorPageDown(3) {
		t.Fatalf("nothing to move to in an empty list")
	}
	if l.Cursor != 0 {
		t.Fatalf("expected cursor reset to 0, got %d", l.Cursor)
	}
}

func TestEnsureCursorVisibleScrollsMinimally(t *testing.T) {
	cases := []struct {
		name           string
		cursor, offset int
		rows           int
		wantCursor     int
		wantOffset     int
	}{
		{"below viewport", 4, 0, 2, 4, 3},
		{"above viewport", 1, 4, 3, 1, 1},
		{"already visible", 2, 1, 3, 2, 1},
		{"negative cursor", -1, 3, 2, 0, 0},
		{"no height", 3, 4, 0, 3, 0},
		{"viewport taller than list", 2, 2, 10, 2, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := newTestLevel("a", "b", "c", "d", "e")
			l.Cursor, l.ViewportOffset = tc.cursor, tc.offset
			l.EnsureCursorVisible(tc.rows)
			if l.Cursor != tc.wantCursor || l.ViewportOffset != tc.wantOffset {
				t.Fatalf("got cursor=%d offset=%d, want %d/%d", l.Cursor, l.ViewportOffset, tc.wantCursor, tc.wantOffset)
			}
		})
	}
}

func TestSelectFindsVisibleRows(t *testing.T) {
	l := newTestLevel("buy milk", "call bank", "pay rent")
	if !l.Select("call bank") {
		t.Fatalf("expected select to find item")
	}
	if item, ok := l.Current(); !ok || item.ID != "call bank" {
		t.Fatalf("expected current to be call bank, got %#v", item)
	}
	if l.Select("missing") {
		t.Fatalf("expected select of unknown id to fail")
	}
	l.SetFilter("rent", 4)
	if l.Select("call bank") {
		t.Fatalf("filtered-out rows cannot be selected")
	}
	if _, ok := newTestLevel().Current(); ok {
		t.Fatalf("expected no current item on empty level")
	}
}
