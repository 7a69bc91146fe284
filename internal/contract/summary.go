package contract

import (
	"fmt"
	"time"

	"github.com/alexanderramin/toil/internal/domain"
	"github.com/alexanderramin/toil/internal/toil"
)

// DefaultSummaryDays is the inclusive length of the default summary window.
const DefaultSummaryDays = 14

// SummaryRequest selects a local date range. Empty bounds default to the
// fortnight ending today in the configured zone.
type SummaryRequest struct {
	Now  *time.Time
	From string
	To   string
}

type SummaryResponse struct {
	From     string
	To       string
	Zone     string
	Settings domain.Settings
	toil.Period
}

// ReportFormat selects a report rendering.
type ReportFormat string

const (
	ReportText ReportFormat = "text"
	ReportCSV  ReportFormat = "csv"
	ReportHTML ReportFormat = "html"
)

// ParseReportFormat defaults an empty value to text.
func ParseReportFormat(s string) (ReportFormat, error) {
	switch ReportFormat(s) {
	case "":
		return ReportText, nil
	case ReportText, ReportCSV, ReportHTML:
		return ReportFormat(s), nil
	default:
		return "", fmt.Errorf("%w: format must be one of text, csv, html (got %q)", domain.ErrValidation, s)
	}
}

type ReportRequest struct {
	SummaryRequest
	Format ReportFormat
}

type ReportResponse struct {
	Format      ReportFormat
	ContentType string
	Filename    string
	Subject     string
	Body        []byte
}
