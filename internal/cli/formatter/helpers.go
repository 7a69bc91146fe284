package formatter

import (
	"fmt"
	"strings"
	"time"

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
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// HumanDateFrom names the local date of t relative to now: "Today",
// "Yesterday", or a short weekday date.
func HumanDateFrom(t, now time.Time, loc *time.Location) string {
	t = t.In(loc)
	now = now.In(loc)
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()

	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	y3, m3, d3 := time.Date(y1, m1, d1-1, 0, 0, 0, 0, time.UTC).Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Mon Jan 2")
}

// ClockTime renders t as a local 24-hour HH:MM.
func ClockTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("15:04")
}

// ElapsedSince renders the running time from start to now as "2h 05m".
func ElapsedSince(start, now time.Time) string {
	d := now.Sub(start)
	if d < 0 {
		d = 0
	}
	total := int(d / time.Minute)
	return fmt.Sprintf("%dh %02dm", total/60, total%60)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatMinutes converts raw minutes into human-friendly format.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h := min / 60
	m := min % 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}

// OrDash renders an optional string, or a dim placeholder when unset.
func OrDash(s *string) string {
	if s == nil || *s == "" {
		return Dim("--")
	}
	return *s
}
