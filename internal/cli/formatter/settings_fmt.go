package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/toil/internal/domain"
)

// FormatSettings renders the TOIL policy and report preferences.
func FormatSettings(s *domain.Settings) string {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-22s", label)), value)
	}

	b.WriteString(Header("Policy") + "\n")
	field("Standard day", fmt.Sprintf("%s (%d min)", FormatMinutes(s.StandardDailyMinutes), s.StandardDailyMinutes))
	field("Rounding", string(s.RoundingRule))
	field("Allow negative TOIL", yesNo(s.AllowNegativeTil))
	overtime := Dim("--")
	if s.OvertimeStartsAfterMinutes != nil {
		overtime = fmt.Sprintf("%d min", *s.OvertimeStartsAfterMinutes)
	}
	field("Overtime starts after", overtime)
	field("Work location", OrDash(s.WorkLocationGeofenceName))

	b.WriteString("\n" + Header("Reports") + "\n")
	recipients := Dim("--")
	if len(s.ReportRecipientEmails) > 0 {
		recipients = strings.Join(s.ReportRecipientEmails, ", ")
	}
	field("Recipients", recipients)
	field("Subject", s.ReportSubjectTemplate)
	footer := s.ReportFooter
	field("Footer", OrDash(&footer))

	return RenderBox("Settings", b.String())
}

func yesNo(v bool) string {
	if v {
		return StyleGreen.Render("yes")
	}
	return StyleDim.Render("no")
}
