package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// PadRight pads s to width visible cells, truncating with an ellipsis.
func PadRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		r := []rune(s)
		if width <= 1 || len(r) < width {
			return string(r[:min(len(r), max(width, 0))])
		}
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-w)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}
