package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/toil/internal/domain"
)

const statusProgressBarWidth = 20

// StatusView is everything the status dashboard shows.
type StatusView struct {
	Open                 *domain.Session
	TodayClosedMinutes   int
	StandardDailyMinutes int
	PeriodFrom           string
	PeriodTo             string
	PeriodTilMinutes     int
	Now                  time.Time
	Location             *time.Location
}

// TodayMinutes adds the running session's elapsed time, net of its breaks,
// to the minutes already closed today.
func (v StatusView) TodayMinutes() int {
	total := v.TodayClosedMinutes
	if v.Open != nil {
		running := v.Now.Sub(v.Open.StartedAt)
		for _, b := range v.Open.Breaks {
			if b.EndedAt.After(b.StartedAt) {
				running -= b.EndedAt.Sub(b.StartedAt)
			}
		}
		total += max(0, int(running/time.Minute))
	}
	return total
}

// FormatStatus renders the clock state, today's progress and the balance
// of the current period. spinner is drawn next to a running session and may
// be empty.
func FormatStatus(v StatusView, spinner string) string {
	var b strings.Builder

	if v.Open != nil {
		indicator := StyleGreen.Render("● Clocked in")
		if spinner != "" {
			indicator = StylePurple.Render(spinner) + " " + indicator
		}
		fmt.Fprintf(&b, "%s since %s %s\n", indicator,
			Bold(ClockTime(v.Open.StartedAt, v.Location)),
			Dim("("+ElapsedSince(v.Open.StartedAt, v.Now)+")"))
		if v.Open.LocationLabel != nil {
			fmt.Fprintf(&b, "%s %s\n", Dim("at"), *v.Open.LocationLabel)
		}
	} else {
		b.WriteString(StyleDim.Render("○ Clocked out") + "\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s\n", Bold("Today"),
		RenderDayProgress(v.TodayMinutes(), v.StandardDailyMinutes, statusProgressBarWidth))
	fmt.Fprintf(&b, "%s  %s %s\n", Bold("TOIL "),
		FormatTil(v.PeriodTilMinutes),
		Dim(fmt.Sprintf("(%s to %s)", v.PeriodFrom, v.PeriodTo)))

	return RenderBox("Status", b.String())
}
