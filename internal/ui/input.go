package ui

import (
	"unicode"

	"github.com/atomicstack/simple-todo/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// filterEdit is a non-text key accepted by filter inputs. op names query
// changes in the trace log; cursor-only moves leave it empty.
type filterEdit struct {
	apply func(*level) bool
	op    string
}

var filterKeys = map[string]filterEdit{
	"ctrl+u":    {clearQuery, "clear"},
	"ctrl+w":    {(*level).DeleteFilterWordBackward, "delete-word"},
	"backspace": {(*level).DeleteFilterRuneBackward, "backspace"},
	"ctrl+h":    {(*level).DeleteFilterRuneBackward, "backspace"},
	"ctrl+a":    {(*level).MoveFilterCursorStart, ""},
	"ctrl+e":    {(*level).MoveFilterCursorEnd, ""},
	"alt+b":     {(*level).MoveFilterCursorWordBackward, ""},
	"alt+f":     {(*level).MoveFilterCursorWordForward, ""},
	"left":      {(*level).MoveFilterCursorRuneBackward, ""},
	"right":     {(*level).MoveFilterCursorRuneForward, ""},
}

func clearQuery(l *level) bool {
	if l.Filter == "" {
		return false
	}
	l.SetFilter("", 0)
	return true
}

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	switch msg.(type) {
	case tea.FocusMsg:
		m.filterFocused = true
	case tea.BlurMsg:
		m.filterFocused = false
	}
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

// editFilter runs fn against l and restarts the caret blink when the caret
// moved. It reports fn's result.
func (m *Model) editFilter(l *level, op string, fn func(*level) bool) bool {
	before := l.FilterCursorPos()
	if !fn(l) {
		return false
	}
	if l.FilterCursorPos() != before {
		m.filterCursorDirty = true
	}
	if op != "" {
		m.errMsg = ""
		events.Filter.Edit(l.ID, op, l.Filter)
	}
	return true
}

// clearFilter empties the query of l, if any.
func (m *Model) clearFilter(l *level) bool {
	return m.editFilter(l, "clear", clearQuery)
}

// handleTextInput applies a key to the filter of current and reports whether
// it was consumed. Whitespace is left to the caller unless allowSpace is set.
func (m *Model) handleTextInput(current *level, msg tea.KeyMsg, allowSpace bool) bool {
	if current == nil {
		return false
	}
	if msg.Type != tea.KeyRunes || msg.Alt {
		if edit, ok := filterKeys[msg.String()]; ok {
			return m.editFilter(current, edit.op, edit.apply)
		}
	}
	var text string
	switch msg.Type {
	case tea.KeySpace:
		text = " "
	case tea.KeyRunes:
		if msg.Alt {
			return false
		}
		text = string(msg.Runes)
	default:
		return false
	}
	if text == "" {
		return false
	}
	for _, r := range text {
		if unicode.IsControl(r) || (unicode.IsSpace(r) && !allowSpace) {
			return false
		}
	}
	return m.editFilter(current, "insert", func(l *level) bool { return l.InsertFilterText(text) })
}

// filterPrompt renders the query line with its caret. An empty query shows a
// placeholder with the caret on its first rune.
func (m *Model) filterPrompt(current *level) (string, *lipgloss.Style) {
	if current == nil {
		return ">", styles.Filter
	}
	text, pos, style := current.Filter, current.FilterCursorPos(), styles.Filter
	if text == "" {
		text, style = "(type to search)", styles.FilterPlaceholder
	}
	if styles.Cursor != nil {
		m.filterCursor.Style = *styles.Cursor
	}
	m.filterCursor.TextStyle = lipgloss.Style{}
	if style != nil {
		m.filterCursor.TextStyle = *style
	}

	runes := []rune(text)
	caret, after := " ", ""
	if pos < len(runes) {
		caret, after = string(runes[pos]), string(runes[pos+1:])
	}
	return render(styles.FilterPrompt, "» ") +
		render(style, string(runes[:pos])) +
		m.renderFilterCursor(caret) +
		render(style, after), nil
}

func (m *Model) renderFilterCursor(char string) string {
	m.filterCursor.SetChar(char)
	base := m.filterCursor.TextStyle.Inline(true)
	switch {
	case m.filterCursor.Blink:
		return base.Render(char)
	case styles.Cursor != nil:
		return base.Inherit(styles.Cursor.Inline(true)).Blink(false).Render(char)
	default:
		return base.Reverse(true).Render(char)
	}
}

var listKeys = map[string]func(l *level, page int) bool{
	"up":     func(l *level, _ int) bool { return l.MoveCursor(-1) },
	"ctrl+p": func(l *level, _ int) bool { return l.MoveCursor(-1) },
	"down":   func(l *level, _ int) bool { return l.MoveCursor(1) },
	"ctrl+n": func(l *level, _ int) bool { return l.MoveCursor(1) },
	"pgup":   (*level).MoveCursorPageUp,
	"pgdown": (*level).MoveCursorPageDown,
	"home":   func(l *level, _ int) bool { return l.MoveCursorHome() },
	"end":    func(l *level, _ int) bool { return l.MoveCursorEnd() },
}

// moveCursor handles the navigation keys shared by every list. It reports
// whether key is a navigation key, even when the cursor could not move.
func moveCursor(l *level, key string, pageSize int) bool {
	move, ok := listKeys[key]
	if !ok || l == nil {
		return false
	}
	if move(l, pageSize) {
		events.UI.Cursor(l.ID, l.Cursor)
	}
	return true
}
