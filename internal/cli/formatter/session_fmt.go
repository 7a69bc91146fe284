package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/toil/internal/domain"
	"github.com/alexanderramin/toil/internal/toil"
)

// FormatSessionList renders sessions as a table in loc.
func FormatSessionList(sessions []*domain.Session, now time.Time, loc *time.Location) string {
	if len(sessions) == 0 {
		return Dim("No sessions in range.") + "\n"
	}
	cols := []Column{
		Left("ID"), Left("DATE"), Left("START"), Left("END"),
		Right("BREAKS"), Right("WORKED"), Left("SOURCE"), Left("LOCATION"),
	}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		end := StyleGreen.Render("running")
		worked := Dim("--")
		if s.EndedAt != nil {
			end = ClockTime(*s.EndedAt, loc)
			worked = FormatMinutes(toil.SessionMinutes(*s))
		}
		rows = append(rows, []string{
			TruncID(s.ID),
			HumanDateFrom(s.StartedAt, now, loc),
			ClockTime(s.StartedAt, loc),
			end,
			FormatMinutes(toil.BreakMinutes(s.Breaks)),
			worked,
			SourcePill(s.Source),
			OrDash(s.LocationLabel),
		})
	}
	return RenderTable(cols, rows, nil)
}

// FormatSession renders one session with its breaks.
func FormatSession(s *domain.Session, loc *time.Location) string {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-9s", label)), value)
	}

	field("ID", s.ID)
	field("Started", s.StartedAt.In(loc).Format("2006-01-02 15:04"))
	if s.EndedAt != nil {
		field("Ended", s.EndedAt.In(loc).Format("2006-01-02 15:04"))
		field("Worked", Bold(FormatMinutes(toil.SessionMinutes(*s))))
	} else {
		field("Ended", StyleGreen.Render("running"))
	}
	field("Source", SourcePill(s.Source))
	field("Location", OrDash(s.LocationLabel))
	if s.Latitude != nil && s.Longitude != nil {
		field("Coords", fmt.Sprintf("%.5f, %.5f", *s.Latitude, *s.Longitude))
	}
	field("Notes", OrDash(s.Notes))

	if len(s.Breaks) > 0 {
		b.WriteString("\n" + Header("Breaks") + "\n")
		for _, br := range s.Breaks {
			mins := max(0, int(br.EndedAt.Sub(br.StartedAt)/time.Minute))
			fmt.Fprintf(&b, "  %s–%s  %s\n",
				ClockTime(br.StartedAt, loc), ClockTime(br.EndedAt, loc), Dim(FormatMinutes(mins)))
		}
	}
	return RenderBox("Session", b.String())
}
