package toil

import "fmt"

// Period is a run of daily totals plus its summed scalars.
type Period struct {
	Days               []DailyTotal `json:"days"`
	TotalWorkedMinutes int          `json:"totalWorkedMinutes"`
	TotalTilMinutes    int          `json:"totalTilMinutes"`
}

// Summarize sums worked and TOIL minutes across days.
func Summarize(days []DailyTotal) Period {
	p := Period{Days: days}
	if p.Days == nil {
		p.Days = []DailyTotal{}
	}
	for _, d := range days {
		p.TotalWorkedMinutes += d.TotalMinutes
		p.TotalTilMinutes += d.TilMinutes
	}
	return p
}

// FormatClock renders minutes as h:mm, with a leading minus for deficits.
func FormatClock(minutes int) string {
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%d:%02d", sign, minutes/60, minutes%60)
}
