package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// overlayCenter composites box over the middle of base. base is treated as a
// width x height cell grid and padded to it.
func overlayCenter(base, box string, width, height int) string {
	rows := splitLines(base)
	for len(rows) < height {
		rows = append(rows, "")
	}
	boxRows := splitLines(box)
	boxWidth := maxLineWidth(boxRows)
	x := max((width-boxWidth)/2, 0)
	y := max((height-len(boxRows))/2, 0)

	for i, line := range boxRows {
		row := y + i
		if row >= len(rows) {
			break
		}
		target := padRight(rows[row], width)
		left := padRight(ansi.Truncate(target, x, ""), x)
		right := ansi.TruncateLeft(target, x+boxWidth, "")
		rows[row] = left + padRight(line, boxWidth) + right
	}
	return strings.Join(rows, "\n")
}

func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

func maxLineWidth(lines []string) int {
	m := 0
	for _, line := range lines {
		m = max(m, ansi.StringWidth(line))
	}
	return m
}

// padRight pads s with spaces to a visual width of width.
func padRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
