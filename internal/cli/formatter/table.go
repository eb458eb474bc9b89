package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// RenderTable renders an aligned table with a header separator line. Widths
// are measured on visible text so styled cells line up.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	widths := make([]int, len(headers))
	measure := func(cells []string) {
		for i := 0; i < len(widths) && i < len(cells); i++ {
			widths[i] = max(widths[i], lipgloss.Width(cells[i]))
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	var b strings.Builder
	styled := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = StyleHeader.Render(h)
	}
	writeRow(&b, styled, headers, widths)

	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = StyleDim.Render(strings.Repeat("─", w))
	}
	writeRow(&b, seps, nil, widths)

	for _, row := range rows {
		writeRow(&b, row, nil, widths)
	}
	return b.String()
}

// writeRow pads each cell to its column width. plain, when given, supplies
// the unstyled text used to measure cells.
func writeRow(b *strings.Builder, cells, plain []string, widths []int) {
	for i := range widths {
		cell, measured := "", ""
		if i < len(cells) {
			cell = cells[i]
			measured = cell
		}
		if plain != nil && i < len(plain) {
			measured = plain[i]
		}
		b.WriteString(cell)
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", max(widths[i]-lipgloss.Width(measured), 0)+colGap))
		}
	}
	b.WriteString("\n")
}
