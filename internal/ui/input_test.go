package ui

import (
	"strings"
	"testing"

	"github.com/atomicstack/simple-todo/internal/task"
	uistate "github.com/atomicstack/simple-todo/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

func newInputModel(t *testing.T) (*Model, *level) {
	t.Helper()
	m := NewModel(Deps{Now: fixedNow})
	l := newLevel("test", "Test", []uistate.Item{{ID: "one", Label: "one"}})
	return m, l
}

func TestHandleTextInputAppendsRunes(t *testing.T) {
	m, current := newInputModel(t)
	handled := m.handleTextInput(current, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc")}, false)
	if !handled {
		t.Fatalf("expected key press to be handled")
	}
	if current.Filter != "abc" {
		t.Fatalf("expected filter 'abc', got %q", current.Filter)
	}
	if pos := current.FilterCursorPos(); pos != 3 {
		t.Fatalf("expected cursor at end, got %d", pos)
	}
}

func TestHandleTextInputSpacePolicy(t *testing.T) {
	m, current := newInputModel(t)
	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	if m.handleTextInput(current, space, false) {
		t.Fatalf("space should be left to the caller")
	}
	if !m.handleTextInput(current, space, true) || current.Filter != " " {
		t.Fatalf("expected space appended, got %q", current.Filter)
	}
}

func TestHandleTextInputCursorMovement(t *testing.T) {
	m, current := newInputModel(t)
	current.SetFilter("abc", 3)

	if !m.handleTextInput(current, tea.KeyMsg{Type: tea.KeyLeft}, false) {
		t.Fatalf("expected left arrow to be handled")
	}
	if pos := current.FilterCursorPos(); pos != 2 {
		t.Fatalf("expected cursor at 2 after left, got %d", pos)
	}
	if !m.handleTextInput(current, tea.KeyMsg{Type: tea.KeyRight}, false) {
		t.Fatalf("expected right arrow to be handled")
	}
	if pos := current.FilterCursorPos(); pos != 3 {
		t.Fatalf("expected cursor back at 3, got %d", pos)
	}
	if !m.handleTextInput(current, tea.KeyMsg{Type: tea.KeyBackspace}, false) || current.Filter != "ab" {
		t.Fatalf("expected backspace to remove a rune, got %q", current.Filter)
	}
	if !m.handleTextInput(current, tea.KeyMsg{Type: tea.KeyCtrlU}, false) || current.Filter != "" {
		t.Fatalf("expected ctrl+u to clear, got %q", current.Filter)
	}
}

func TestFilterPromptPlaceholder(t *testing.T) {
	m, current := newInputModel(t)
	prompt, _ := m.filterPrompt(current)
	if !strings.Contains(prompt, "type to search") {
		t.Fatalf("expected placeholder in prompt, got %q", prompt)
	}
}

func TestMoveCursorKeys(t *testing.T) {
	_, l := newInputModel(t)
	l.UpdateItems([]uistate.Item{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	if !moveCursor(l, "end", 2) || l.Cursor != 2 {
		t.Fatalf("expected cursor at end, got %d", l.Cursor)
	}
	if !moveCursor(l, "up", 2) || l.Cursor != 1 {
		t.Fatalf("expected cursor at 1, got %d", l.Cursor)
	}
	if !moveCursor(l, "home", 2) || l.Cursor != 0 {
		t.Fatalf("expected cursor at 0, got %d", l.Cursor)
	}
	if moveCursor(l, "x", 2) {
		t.Fatalf("expected other keys to pass through")
	}
}

func TestFilterCaretFollowsFocus(t *testing.T) {
	h, _ := newTestHarness(t, nil, task.New("buy milk"))
	if !h.Model().filterFocused {
		t.Fatalf("expected filter caret focused after init")
	}
	openRootItem(t, h, destTasks)

	h.Model().filterCursor.Blink = true
	h.Type("m")
	m := h.Model()
	if m.filterCursorDirty {
		t.Fatalf("expected caret refresh to be consumed")
	}
	if m.filterCursor.Blink {
		t.Fatalf("expected caret visible after an edit")
	}

	h.Send(tea.BlurMsg{})
	if h.Model().filterFocused {
		t.Fatalf("expected blur to unfocus the caret")
	}
	h.Send(tea.FocusMsg{})
	if !h.Model().filterFocused {
		t.Fatalf("expected focus to restore the caret")
	}
}
