// Package report renders a TOIL period as plain text, CSV or HTML.
package report

import (
	"strings"
	"time"

	"github.com/alexanderramin/toil/internal/toil"
)

// Report is everything a rendering needs. Times are shown in Location.
type Report struct {
	From               string
	To                 string
	Days               []toil.DailyTotal
	TotalWorkedMinutes int
	TotalTilMinutes    int
	Footer             string
	Location           *time.Location
}

// New builds a report for the local date range [from, to].
func New(from, to string, p toil.Period, footer string, loc *time.Location) Report {
	if loc == nil {
		loc = time.UTC
	}
	return Report{
		From:               from,
		To:                 to,
		Days:               p.Days,
		TotalWorkedMinutes: p.TotalWorkedMinutes,
		TotalTilMinutes:    p.TotalTilMinutes,
		Footer:             footer,
		Location:           loc,
	}
}

// Subject fills the {from} and {to} placeholders of a subject template.
func Subject(template, from, to string) string {
	return strings.NewReplacer("{from}", from, "{to}", to).Replace(template)
}

// Filename is the download name for a rendering with the given extension.
func Filename(from, to, ext string) string {
	return "toil-report-" + from + "-" + to + "." + ext
}

// Clock renders an instant as local HH:mm.
func (r Report) Clock(t time.Time) string {
	return t.In(r.Location).Format("15:04")
}
