package report

import (
	"html/template"
	"io"

	"github.com/alexanderramin/toil/internal/toil"
)

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"clock": toil.FormatClock,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>TOIL Report {{.From}} to {{.To}}</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; max-width: 800px; margin: 40px auto; padding: 0 20px; color: #333; }
    h1 { color: #1a1a2e; border-bottom: 2px solid #e94560; padding-bottom: 10px; }
    .period { color: #666; margin-bottom: 30px; }
    table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
    th { background: #1a1a2e; color: white; padding: 10px; text-align: left; }
    td { padding: 8px 10px; border-bottom: 1px solid #eee; }
    .day-row { background: #f8f9fa; font-weight: 500; }
    .session-row td { font-size: 0.9em; color: #555; padding-left: 30px; }
    .summary { background: #f0f4ff; border-radius: 8px; padding: 20px; }
    .summary-item { display: flex; justify-content: space-between; margin: 8px 0; }
    footer { margin-top: 40px; padding-top: 20px; border-top: 1px solid #eee; color: #888; font-size: 0.85em; }
  </style>
</head>
<body>
  <h1>TOIL Tracker Report</h1>
  <p class="period">Period: <strong>{{.From}}</strong> to <strong>{{.To}}</strong></p>
  <table>
    <thead>
      <tr><th>Date</th><th>Sessions</th><th>Hours Worked</th><th>TOIL</th></tr>
    </thead>
    <tbody>
{{- range .Days}}
      <tr class="day-row"><td><strong>{{.Date}}</strong></td><td></td><td>{{clock .TotalMinutes}}</td><td>{{clock .TilMinutes}}</td></tr>
{{- range .Sessions}}
      <tr class="session-row"><td></td><td>{{$.Clock .StartedAt}} &ndash; {{$.Clock .EndedAt}}</td><td>{{clock .Minutes}}</td><td></td></tr>
{{- end}}
{{- end}}
    </tbody>
  </table>
  <div class="summary">
    <div class="summary-item"><span>Total Hours Worked</span><strong>{{clock .TotalWorkedMinutes}}</strong></div>
    <div class="summary-item"><span>Total TOIL Accrued</span><strong>{{clock .TotalTilMinutes}}</strong></div>
  </div>
{{- if .Footer}}
  <footer>{{.Footer}}</footer>
{{- end}}
</body>
</html>
`))

// RenderHTML writes a standalone HTML page. The footer is escaped.
func RenderHTML(w io.Writer, r Report) error {
	return htmlTemplate.Execute(w, r)
}
