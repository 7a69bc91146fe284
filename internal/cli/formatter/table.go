package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Align positions a cell inside its column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Column is a table header with its alignment.
type Column struct {
	Title string
	Align Align
}

// Left and Right build columns.
func Left(title string) Column  { return Column{Title: title, Align: AlignLeft} }
func Right(title string) Column { return Column{Title: title, Align: AlignRight} }

const colGap = 2

// RenderTable renders an aligned table with a header separator line and an
// optional footer row set off by a second separator. Widths are measured on
// visible characters so styled cells line up.
func RenderTable(cols []Column, rows [][]string, footer []string) string {
	if len(cols) == 0 {
		return ""
	}

	widths := make([]int, len(cols))
	measure := func(row []string) {
		for i := 0; i < len(cols) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}
	for i, c := range cols {
		widths[i] = lipgloss.Width(c.Title)
	}
	for _, row := range rows {
		measure(row)
	}
	measure(footer)

	var b strings.Builder
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = StyleHeader.Render(c.Title)
	}
	writeRow(&b, cols, widths, titles)
	writeSeparator(&b, widths)
	for _, row := range rows {
		writeRow(&b, cols, widths, row)
	}
	if footer != nil {
		writeSeparator(&b, widths)
		writeRow(&b, cols, widths, footer)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cols []Column, widths []int, row []string) {
	for i := range cols {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		pad := strings.Repeat(" ", max(0, widths[i]-lipgloss.Width(cell)))
		if cols[i].Align == AlignRight {
			b.WriteString(pad + cell)
		} else if i < len(cols)-1 {
			b.WriteString(cell + pad)
		} else {
			b.WriteString(cell)
		}
		if i < len(cols)-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
}

func writeSeparator(b *strings.Builder, widths []int) {
	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
}
