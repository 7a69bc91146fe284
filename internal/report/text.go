package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/alexanderramin/toil/internal/toil"
)

// RenderText writes the plain-text report.
func RenderText(w io.Writer, r Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "TOIL TRACKER REPORT")
	fmt.Fprintln(bw, "===================")
	fmt.Fprintf(bw, "Period: %s to %s\n", r.From, r.To)
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Daily Breakdown:")
	fmt.Fprintln(bw, "-----------------")

	for _, day := range r.Days {
		fmt.Fprintf(bw, "%s  Worked: %-6s  TOIL: %s\n", day.Date, toil.FormatClock(day.TotalMinutes), toil.FormatClock(day.TilMinutes))
		for _, s := range day.Sessions {
			fmt.Fprintf(bw, "  %s - %s  (%s)\n", r.Clock(s.StartedAt), r.Clock(s.EndedAt), toil.FormatClock(s.Minutes))
		}
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Summary:")
	fmt.Fprintln(bw, "--------")
	fmt.Fprintf(bw, "Total Worked: %s\n", toil.FormatClock(r.TotalWorkedMinutes))
	fmt.Fprintf(bw, "Total TOIL:   %s", toil.FormatClock(r.TotalTilMinutes))

	if r.Footer != "" {
		fmt.Fprintf(bw, "\n\n%s", r.Footer)
	}
	return bw.Flush()
}
