// Package status condenses task aggregates into the one-line summary shown
// in the popup header and on the tmux status line.
package status

import (
	"fmt"

	"github.com/atomicstack/simple-todo/internal/theme"
)

// Aggregates is the read-only view of the task collection that the summary
// needs. Implementations return 0 for empty collections.
type Aggregates interface {
	TotalTasks() int
	CompletedTasks() int
	OverdueTasks() int
}

// Glyph identifies the icon shown next to the summary text.
type Glyph string

const (
	GlyphNone      Glyph = ""
	GlyphAllClear  Glyph = "✔"
	GlyphUnchecked Glyph = "☐"
	GlyphChecklist Glyph = "☰"
)

// Kind names the rule that produced a Summary.
type Kind int

const (
	KindOverdue Kind = iota
	KindAllClear
	KindUntouched
	KindInProgress
)

// Summary is the outcome of evaluating the status rules.
type Summary struct {
	Kind  Kind
	Glyph Glyph
	Text  string
}

// Summarize applies the status rules in priority order; the first match wins.
// Overdue tasks always take precedence and carry no glyph.
func Summarize(agg Aggregates) Summary {
	total := agg.TotalTasks()
	completed := agg.CompletedTasks()
	overdue := agg.OverdueTasks()
	remaining := total - completed
	if remaining < 0 {
		remaining = 0
	}

	switch {
	case overdue > 0:
		return Summary{Kind: KindOverdue, Glyph: GlyphNone, Text: fmt.Sprintf("‼️%d tasks overdue", overdue)}
	case total == 0 || completed == total:
		return Summary{Kind: KindAllClear, Glyph: GlyphAllClear, Text: "All Clear"}
	case completed == 0:
		return Summary{Kind: KindUntouched, Glyph: GlyphUnchecked, Text: fmt.Sprintf("%d tasks", remaining)}
	default:
		return Summary{Kind: KindInProgress, Glyph: GlyphChecklist, Text: fmt.Sprintf("%d tasks", remaining)}
	}
}

// Plain renders the summary without styling, as used on the tmux status line.
func (s Summary) Plain() string {
	if s.Glyph == GlyphNone {
		return s.Text
	}
	return string(s.Glyph) + " " + s.Text
}

// Render returns the styled summary for the popup header.
func (s Summary) Render() string {
	styles := theme.Default()
	style := styles.StatusPending
	switch s.Kind {
	case KindOverdue:
		style = styles.StatusOverdue
	case KindAllClear:
		style = styles.StatusClear
	}
	if style == nil {
		return s.Plain()
	}
	return style.Render(s.Plain())
}
