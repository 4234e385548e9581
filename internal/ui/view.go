package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/simple-todo/internal/nav"
	"github.com/atomicstack/simple-todo/internal/status"
	uistate "github.com/atomicstack/simple-todo/internal/ui/state"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// styledLine is one output row. Plain rows are styled at render time, with
// the first gutter rune optionally styled apart from the rest. raw rows are
// already styled.
type styledLine struct {
	text   string
	style  *lipgloss.Style
	gutter *lipgloss.Style
	raw    bool
}

// frame is what a view hands to renderFrame: a title for the breadcrumb, the
// body lines and, for filterable lists, the level whose filter is shown.
type frame struct {
	title  string
	body   []styledLine
	filter *level
	help   string
}

// bottomBarRows is the error/status line plus the prompt line.
const bottomBarRows = 2

func (m *Model) renderFrame(f frame, width, height int) string {
	lines := make([]styledLine, 0, len(f.body)+6)
	lines = append(lines, styledLine{text: m.headerText(f.title), raw: true})
	lines = append(lines, f.body...)
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter && f.help != "" {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: f.help, style: styles.Footer})
	}
	if height > 0 {
		lines = limitHeight(lines, height-bottomBarRows, width)
	}
	lines = fitWidth(lines, width)

	var statusLine styledLine
	if m.errMsg != "" {
		statusLine = styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error}
	} else if m.storeWarning != "" {
		statusLine = styledLine{text: "Warning: " + m.storeWarning, style: styles.Error}
	}
	promptLine := styledLine{}
	if f.filter != nil {
		promptText, _ := m.filterPrompt(f.filter)
		promptLine = styledLine{text: promptText, raw: true}
	}
	lines = append(lines, fitWidth([]styledLine{statusLine, promptLine}, width)...)
	return renderLines(lines)
}

// headerText is the status summary followed by the breadcrumb.
func (m *Model) headerText(title string) string {
	summary := status.Summarize(m.tasks).Render()
	crumb := defaultRootTitle
	if title != "" && title != defaultRootTitle {
		crumb = defaultRootTitle + menuHeaderSeparator + title
	}
	if styles.Header != nil {
		crumb = styles.Header.Render(crumb)
	}
	return summary + "  " + crumb
}

// chromeRows counts the rows renderFrame adds around the body.
func (m *Model) chromeRows() int {
	used := 1 + bottomBarRows
	if m.currentInfo() != "" {
		used += 2
	}
	if m.showFooter {
		used += 2
	}
	return used
}

// listRows returns how many list rows fit when extra body lines are also
// shown. A non-positive height means unlimited.
func (m *Model) listRows(height, extra int) int {
	if height <= 0 {
		return -1
	}
	remain := height - m.chromeRows() - extra
	if remain < 1 {
		return 1
	}
	return remain
}

// rowFunc supplies the link and display text for a list item. Items keep
// plain labels for filtering; the display text may carry styling.
type rowFunc func(item uistate.Item) (*nav.Link, string)

// listLines renders the rows of l that fit in maxRows, scrolled so the
// cursor is visible. Rows without a link use plain item styling.
func listLines(l *level, row rowFunc, width, maxRows int) []styledLine {
	if len(l.Items) == 0 {
		if l.Filter != "" {
			return []styledLine{{text: fmt.Sprintf("No matches for %q", l.Filter), style: styles.Info}}
		}
		return []styledLine{{text: "(no entries)", style: styles.Info}}
	}
	l.EnsureCursorVisible(maxRows)
	start, end := 0, len(l.Items)
	if maxRows > 0 && end > maxRows {
		start = l.ViewportOffset
		end = start + maxRows
	}
	lines := make([]styledLine, 0, end-start)
	for idx, item := range l.Items[start:end] {
		var link *nav.Link
		label := item.Label
		if row != nil {
			link, label = row(item)
		}
		lines = append(lines, buildItemLine(item.ID, label, start+idx, l, link, width))
	}
	return lines
}

const gutterGlyph = "▌"

// buildItemLine renders one row. The cursor row is highlighted and, for
// link rows, is the hovered link.
func buildItemLine(id, label string, idx int, current *level, link *nav.Link, width int) styledLine {
	onCursor := idx == current.Cursor
	gutter, body := styles.ItemIndicator, styles.Item
	if onCursor {
		gutter, body = styles.SelectedItemIndicator, styles.SelectedItem
	}
	if current.MultiSelect {
		mark := "[ ] "
		if current.IsMarked(id) {
			mark = "[✓] "
		}
		label = mark + label
	}

	if link != nil {
		link.SetHovered(onCursor)
		link.SetContent(label)
		return styledLine{text: render(gutter, gutterGlyph) + " " + link.Render(max(width-2, 0)), raw: true}
	}
	text := gutterGlyph + " " + label
	if pad := width - lipgloss.Width(text); width > 0 && pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	return styledLine{text: text, style: body, gutter: gutter}
}

// limitHeight keeps at most height rows, replacing the last kept row with an
// ellipsis when rows were dropped.
func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	kept := append([]styledLine(nil), lines[:height-1]...)
	return append(kept, styledLine{text: "…"}.fit(width))
}

// fit truncates the row to width cells, ending it with an ellipsis.
func (l styledLine) fit(width int) styledLine {
	if width > 0 && lipgloss.Width(l.text) > width {
		l.text = truncate.StringWithTail(l.text, uint(width), "…")
	}
	return l
}

func fitWidth(lines []styledLine, width int) []styledLine {
	out := make([]styledLine, len(lines))
	for i, line := range lines {
		out[i] = line.fit(width)
	}
	return out
}

func (l styledLine) String() string {
	if l.raw {
		return l.text
	}
	if l.gutter != nil && strings.HasPrefix(l.text, gutterGlyph) {
		rest := strings.TrimPrefix(l.text, gutterGlyph)
		return l.gutter.Render(gutterGlyph) + render(l.style, rest)
	}
	return render(l.style, l.text)
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line.String()
	}
	return strings.Join(out, "\n")
}

func render(style *lipgloss.Style, value string) string {
	if style == nil || value == "" {
		return value
	}
	return style.Render(value)
}
