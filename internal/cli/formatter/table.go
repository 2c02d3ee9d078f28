package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// RenderTable renders an aligned table with a header separator line. Widths
// are measured with lipgloss so styled cells line up. Columns listed in
// rightAlign are padded on the left.
func RenderTable(headers []string, rows [][]string, rightAlign ...int) string {
	if len(headers) == 0 {
		return ""
	}
	cols := len(headers)
	right := make([]bool, cols)
	for _, i := range rightAlign {
		if i >= 0 && i < cols {
			right[i] = true
		}
	}

	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := max(widths[i]-lipgloss.Width(cell), 0)
			if right[i] {
				b.WriteString(strings.Repeat(" ", pad))
			}
			b.WriteString(style(cell))
			if i < cols-1 {
				if !right[i] {
					b.WriteString(strings.Repeat(" ", pad))
				}
				b.WriteString(strings.Repeat(" ", colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(s string) string { return StyleHeader.Render(s) })
	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row, func(s string) string { return s })
	}
	return b.String()
}
