package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/toil/internal/contract"
)

// FormatSummary renders the per-day totals of a period with a totals footer.
func FormatSummary(resp *contract.SummaryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s  %s\n\n",
		Bold(resp.From), Dim("→"), Bold(resp.To), Dim(resp.Zone))

	if len(resp.Days) == 0 {
		b.WriteString(Dim("No closed sessions in range.") + "\n")
		return RenderBox("Summary", b.String())
	}

	cols := []Column{Left("DATE"), Right("SESSIONS"), Right("WORKED"), Right("TOIL")}
	rows := make([][]string, 0, len(resp.Days))
	for _, d := range resp.Days {
		rows = append(rows, []string{
			d.Date,
			fmt.Sprintf("%d", len(d.Sessions)),
			FormatMinutes(d.TotalMinutes),
			FormatTil(d.TilMinutes),
		})
	}
	footer := []string{
		Bold("Total"),
		"",
		Bold(FormatMinutes(resp.TotalWorkedMinutes)),
		FormatTil(resp.TotalTilMinutes),
	}
	b.WriteString(RenderTable(cols, rows, footer))
	b.WriteString("\n" + Dim(fmt.Sprintf("Standard day %s, rounding %s",
		FormatMinutes(resp.Settings.StandardDailyMinutes), resp.Settings.RoundingRule)) + "\n")
	return RenderBox("Summary", b.String())
}
