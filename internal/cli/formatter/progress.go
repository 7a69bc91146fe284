package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock   = "█"
	overtimeBlock = "▓"
	emptyBlock    = "░"
)

// RenderDayProgress renders worked minutes against the standard day as a bar
// like [██████░░░░] 6h / 7h 36m. Time beyond the standard day is drawn past
// the bar in the overtime color.
func RenderDayProgress(worked, standard, width int) string {
	if width < 2 {
		width = 2
	}
	if standard <= 0 {
		standard = 1
	}
	worked = max(0, worked)

	pct := float64(worked) / float64(standard)
	filled := min(width, int(pct*float64(width)))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleYellow
	if worked >= standard {
		style = StyleGreen
	}
	out := fmt.Sprintf("[%s]", style.Render(bar))

	if over := worked - standard; over > 0 {
		extra := min(width, int(float64(over)/float64(standard)*float64(width))+1)
		out += StylePurple.Render(strings.Repeat(overtimeBlock, extra))
	}
	return fmt.Sprintf("%s %s / %s", out, FormatMinutes(worked), FormatMinutes(standard))
}
