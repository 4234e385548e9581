// Package table lays out rows of cells into aligned, width-bounded lines.
package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

const gutter = "  "

// Column describes how one column is laid out.
type Column struct {
	Align Alignment
	// Flex columns shrink, in order, when a line would exceed the width.
	Flex bool
	// Min is the narrowest a flex column may become.
	Min int
}

// Format returns the rows padded according to the widest entry in each column.
func Format(rows [][]string, alignments []Alignment) []string {
	cols := make([]Column, len(alignments))
	for i, a := range alignments {
		cols[i] = Column{Align: a}
	}
	return Fit(rows, cols, 0)
}

// Fit lays out rows like Format and then shrinks flex columns so no line is
// wider than maxWidth. A maxWidth of 0 disables shrinking. Shrunk cells end
// with an ellipsis.
func Fit(rows [][]string, cols []Column, maxWidth int) []string {
	if len(rows) == 0 {
		return nil
	}
	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	widths := make([]int, colCount)
	for _, row := range rows {
		for c, cell := range row {
			if w := cellWidth(cell); w > widths[c] {
				widths[c] = w
			}
		}
	}
	if maxWidth > 0 {
		shrink(widths, cols, maxWidth)
	}

	out := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		for c := 0; c < colCount; c++ {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			if c > 0 {
				b.WriteString(gutter)
			}
			if cellWidth(cell) > widths[c] {
				cell = truncate.StringWithTail(cell, uint(widths[c]), "…")
			}
			pad := widths[c] - cellWidth(cell)
			if c < len(cols) && cols[c].Align == AlignRight {
				writeSpaces(&b, pad)
				b.WriteString(cell)
			} else {
				b.WriteString(cell)
				if c < colCount-1 {
					writeSpaces(&b, pad)
				}
			}
		}
		out[i] = b.String()
	}
	return out
}

func shrink(widths []int, cols []Column, maxWidth int) {
	total := len(gutter) * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	for c := range widths {
		if total <= maxWidth {
			return
		}
		if c >= len(cols) || !cols[c].Flex {
			continue
		}
		min := cols[c].Min
		if min < 1 {
			min = 1
		}
		excess := total - maxWidth
		room := widths[c] - min
		if room <= 0 {
			continue
		}
		if excess > room {
			excess = room
		}
		widths[c] -= excess
		total -= excess
	}
}

func cellWidth(text string) int {
	return lipgloss.Width(text)
}

func writeSpaces(b *strings.Builder, count int) {
	if count <= 0 {
		return
	}
	b.WriteString(strings.Repeat(" ", count))
}
