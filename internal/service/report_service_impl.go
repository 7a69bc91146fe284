package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/toil/internal/contract"
	"github.com/alexanderramin/toil/internal/report"
)

type reportService struct {
	summary  SummaryService
	opts     Options
	observer UseCaseObserver
}

func NewReportService(summary SummaryService, opts Options, observers ...UseCaseObserver) ReportService {
	return &reportService{
		summary:  summary,
		opts:     opts.withDefaults(),
		observer: useCaseObserverOrNoop(observers),
	}
}

// Render builds the period summary and renders it in the requested format.
func (s *reportService) Render(ctx context.Context, req contract.ReportRequest) (resp *contract.ReportResponse, err error) {
	fields := map[string]any{"format": string(req.Format)}
	defer observe(ctx, s.observer, "report", time.Now(), fields, &err)

	format, err := contract.ParseReportFormat(string(req.Format))
	if err != nil {
		return nil, err
	}

	sum, err := s.summary.Summary(ctx, req.SummaryRequest)
	if err != nil {
		return nil, err
	}

	r := report.New(sum.From, sum.To, sum.Period, sum.Settings.ReportFooter, s.opts.Location)
	resp = &contract.ReportResponse{
		Format:  format,
		Subject: report.Subject(sum.Settings.ReportSubjectTemplate, sum.From, sum.To),
	}

	var buf bytes.Buffer
	switch format {
	case contract.ReportCSV:
		err = report.RenderCSV(&buf, r)
		resp.ContentType = "text/csv; charset=utf-8"
		resp.Filename = report.Filename(sum.From, sum.To, "csv")
	case contract.ReportHTML:
		err = report.RenderHTML(&buf, r)
		resp.ContentType = "text/html; charset=utf-8"
		resp.Filename = report.Filename(sum.From, sum.To, "html")
	default:
		err = report.RenderText(&buf, r)
		resp.ContentType = "text/plain; charset=utf-8"
		resp.Filename = report.Filename(sum.From, sum.To, "txt")
	}
	if err != nil {
		return nil, fmt.Errorf("rendering %s report: %w", format, err)
	}
	resp.Body = buf.Bytes()
	fields["bytes"] = len(resp.Body)
	return resp, nil
}
