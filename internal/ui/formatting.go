package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table creates a simple aligned table. Widths are display widths, so wide
// characters in issue titles keep columns aligned.
func Table(headers []string, rows [][]string) string {
	if len(headers) == 0 || len(rows) == 0 {
		return ""
	}

	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}

	var result strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i >= len(widths) {
				break
			}
			if i == len(cells)-1 || i == len(widths)-1 {
				result.WriteString(cell)
				break
			}
			result.WriteString(runewidth.FillRight(cell, widths[i]))
			result.WriteString("  ")
		}
		result.WriteString("\n")
	}

	writeRow(headers)
	separators := make([]string, len(widths))
	for i, width := range widths {
		separators[i] = strings.Repeat("─", width)
	}
	writeRow(separators)
	for _, row := range rows {
		writeRow(row)
	}

	return result.String()
}
