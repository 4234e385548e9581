package state

import (
	"reflect"
	"testing"
)

func TestSetFilterTracksCursorAndRestoresPosition(t *testing.T) {
	level := newTestLevel("groceries", "dentist", "taxes")
	level.Cursor = 2
	level.SetFilter("dentist", len("dentist"))

	if level.Filter != "dentist" {
		t.Fatalf("expected filter persisted, got %q", level.Filter)
	}
	if level.FilterCursor != len("dentist") {
		t.Fatalf("expected cursor at end, got %d", level.FilterCursor)
	}
	if level.Cursor != 0 {
		t.Fatalf("expected filtered cursor at 0, got %d", level.Cursor)
	}
	if len(level.Items) != 1 || level.Items[0].ID != "dentist" {
		t.Fatalf("expected filtered items to contain only 'dentist', got %#v", level.Items)
	}

	level.SetFilter("", 0)
	if level.Cursor != 2 {
		t.Fatalf("expected cursor restored to 2, got %d", level.Cursor)
	}
	if level.LastCursor != -1 {
		t.Fatalf("expected last cursor reset, got %d", level.LastCursor)
	}
}

func TestInsertAndDeleteFilterText(t *testing.T) {
	level := newTestLevel("renew passport")

	if !level.InsertFilterText("rp") {
		t.Fatal("expected insert to succeed")
	}
	if level.Filter != "rp" || level.FilterCursor != 2 {
		t.Fatalf("unexpected filter state %q/%d", level.Filter, level.FilterCursor)
	}

	level.FilterCursor = 1
	if !level.InsertFilterText("e") {
		t.Fatal("expected insert in middle to succeed")
	}
	if level.Filter != "rep" {
		t.Fatalf("expected insert into middle, got %q", level.Filter)
	}
	if level.FilterCursor != 2 {
		t.Fatalf("expected cursor 2 after insert, got %d", level.FilterCursor)
	}

	if !level.DeleteFilterRuneBackward() {
		t.Fatal("expected rune deletion to succeed")
	}
	if level.Filter != "rp" || level.FilterCursor != 1 {
		t.Fatalf("unexpected filter state after delete %q/%d", level.Filter, level.FilterCursor)
	}

	level.SetFilter("renew pass", len("renew pass"))
	if !level.DeleteFilterWordBackward() {
		t.Fatal("expected word deletion to succeed")
	}
	if level.Filter != "renew " {
		t.Fatalf("expected trailing word removed, got %q", level.Filter)
	}

	level.SetFilter("renew", 0)
	if level.DeleteFilterRuneBackward() {
		t.Fatal("expected delete at start to fail")
	}
}

func TestFilterCursorNavigation(t *testing.T) {
	level := newTestLevel("water plants", "book flights")
	level.SetFilter("book flights", len("book flights"))

	if !level.MoveFilterCursorWordBackward() {
		t.Fatal("expected word backward movement")
	}
	if level.FilterCursor != 5 {
		t.Fatalf("expected cursor at 5, got %d", level.FilterCursor)
	}
	if !level.MoveFilterCursorWordForward() {
		t.Fatal("expected word forward movement")
	}
	if level.FilterCursor != len("book flights") {
		t.Fatalf("expected cursor restored to end, got %d", level.FilterCursor)
	}
	if !level.MoveFilterCursorRuneBackward() {
		t.Fatal("expected rune backward movement")
	}
	if !level.MoveFilterCursorRuneForward() {
		t.Fatal("expected rune forward movement")
	}
	if !level.MoveFilterCursorStart() || level.FilterCursor != 0 {
		t.Fatalf("expected cursor at 0, got %d", level.FilterCursor)
	}
	if !level.MoveFilterCursorEnd() {
		t.Fatal("expected move back to end")
	}
}

func TestFilterItemsMatchesSearchText(t *testing.T) {
	items := []Item{
		{ID: "OPS-1", Label: "OPS-1  Rotate keys", Search: "security"},
		{ID: "OPS-2", Label: "OPS-2  Patch hosts"},
	}
	filtered := FilterItems(items, "secur")
	if len(filtered) != 1 || filtered[0].ID != "OPS-1" {
		t.Fatalf("expected search text match, got %#v", filtered)
	}
	filtered = FilterItems(items, "ops-2")
	if len(filtered) != 1 || filtered[0].ID != "OPS-2" {
		t.Fatalf("expected key match, got %#v", filtered)
	}

	clone := CloneItems(items)
	if &clone[0] == &items[0] {
		t.Fatal("expected clone to allocate new backing array")
	}
	if len(FilterItems(items, "nomatch")) != 0 {
		t.Fatal("expected empty results when nothing matches")
	}
}

func TestBestMatchIndex(t *testing.T) {
	items := []Item{
		{ID: "a1", Label: "Laundry"},
		{ID: "b2", Label: "Dishes"},
		{ID: "c3", Label: "Dusting"},
	}

	if idx := BestMatchIndex(items, "Dishes"); idx != 1 {
		t.Fatalf("expected exact label match index 1, got %d", idx)
	}
	if idx := BestMatchIndex(items, "c3"); idx != 2 {
		t.Fatalf("expected ID match index 2, got %d", idx)
	}
	if idx := BestMatchIndex(items, "du"); idx != 2 {
		t.Fatalf("expected prefix match index 2, got %d", idx)
	}
	if idx := BestMatchIndex(items, "zzz"); idx != 0 {
		t.Fatalf("expected fallback index 0, got %d", idx)
	}
	if idx := BestMatchIndex(nil, "anything"); idx != -1 {
		t.Fatalf("expected -1 for empty slice, got %d", idx)
	}
}

func TestSetFilterSelectsFuzzyMatch(t *testing.T) {
	items := []Item{{ID: "1", Label: "Laundry"}, {ID: "2", Label: "Dishes"}}
	level := NewLevel("tasks", "Tasks", items)
	level.SetFilter("lau", 3)
	if level.Cursor != 0 {
		t.Fatalf("expected fuzzy match to select first item, got %d", level.Cursor)
	}
	if !reflect.DeepEqual(level.Items, []Item{{ID: "1", Label: "Laundry"}}) {
		t.Fatalf("expected filtered items to contain Laundry, got %#v", level.Items)
	}
}

func TestMarksSurviveRefresh(t *testing.T) {
	level := newTestLevel("a", "b", "c")
	level.MultiSelect = true
	level.Cursor = 1
	level.ToggleMarkAtCursor()
	level.ToggleMark("c")
	if got := level.MarkedItems(); len(got) != 2 || got[0].ID != "b" {
		t.Fatalf("expected b and c marked, got %#v", got)
	}
	level.UpdateItems([]Item{{ID: "b", Label: "b"}})
	if level.IsMarked("c") || !level.IsMarked("b") {
		t.Fatalf("expected stale mark dropped")
	}
	level.ClearMarks()
	if len(level.MarkedItems()) != 0 {
		t.Fatalf("expected marks cleared")
	}
}
