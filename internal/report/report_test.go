package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/toil/internal/toil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func sampleReport(t *testing.T, footer string) Report {
	t.Helper()
	loc, err := time.LoadLocation("Australia/Perth")
	require.NoError(t, err)

	days := []toil.DailyTotal{
		{
			Date:         "2024-01-15",
			TotalMinutes: 540,
			TilMinutes:   84,
			Sessions: []toil.SessionDetail{
				// 08:00-12:00 and 13:00-18:00 Perth
				{ID: "a", StartedAt: mustTime(t, "2024-01-15T00:00:00Z"), EndedAt: mustTime(t, "2024-01-15T04:00:00Z"), Minutes: 240},
				{ID: "b", StartedAt: mustTime(t, "2024-01-15T05:00:00Z"), EndedAt: mustTime(t, "2024-01-15T10:00:00Z"), Minutes: 300},
			},
		},
		{Date: "2024-01-16", TotalMinutes: 120, TilMinutes: 0, Sessions: []toil.SessionDetail{}},
	}
	return New("2024-01-15", "2024-01-16", toil.Summarize(days), footer, loc)
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, sampleReport(t, "Approved by J. Smith")))

	want := strings.Join([]string{
		"TOIL TRACKER REPORT",
		"===================",
		"Period: 2024-01-15 to 2024-01-16",
		"",
		"Daily Breakdown:",
		"-----------------",
		"2024-01-15  Worked: 9:00    TOIL: 1:24",
		"  08:00 - 12:00  (4:00)",
		"  13:00 - 18:00  (5:00)",
		"2024-01-16  Worked: 2:00    TOIL: 0:00",
		"",
		"Summary:",
		"--------",
		"Total Worked: 11:00",
		"Total TOIL:   1:24",
		"",
		"Approved by J. Smith",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestRenderText_NoFooter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, sampleReport(t, "")))
	assert.True(t, strings.HasSuffix(buf.String(), "Total TOIL:   1:24"))
}

func TestRenderText_NegativeToil(t *testing.T) {
	days := []toil.DailyTotal{{Date: "2024-01-15", TotalMinutes: 360, TilMinutes: -96, Sessions: []toil.SessionDetail{}}}
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, New("2024-01-15", "2024-01-15", toil.Summarize(days), "", nil)))
	assert.Contains(t, buf.String(), "TOIL: -1:36")
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, sampleReport(t, "ignored")))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 5)
	assert.Equal(t, []string{"TOIL Tracker Report", "2024-01-15 to 2024-01-16"}, records[0])
	assert.Equal(t, csvHeader, records[1])
	assert.Equal(t, []string{"2024-01-15", "08:00", "12:00", "240", "540", "84"}, records[2])
	assert.Equal(t, []string{"", "13:00", "18:00", "300", "", ""}, records[3])
	assert.Equal(t, []string{"2024-01-16", "", "", "", "120", "0"}, records[4])
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, sampleReport(t, "<script>alert(1)</script>")))
	out := buf.String()

	assert.Contains(t, out, "<title>TOIL Report 2024-01-15 to 2024-01-16</title>")
	assert.Contains(t, out, "<td><strong>2024-01-15</strong></td><td></td><td>9:00</td><td>1:24</td>")
	assert.Contains(t, out, "08:00 &ndash; 12:00")
	assert.Contains(t, out, "<strong>11:00</strong>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestRenderHTML_NoFooterElementWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, sampleReport(t, "")))
	assert.NotContains(t, buf.String(), "<footer>")
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "TOIL report 2024-01-01 to 2024-01-14", Subject("TOIL report {from} to {to}", "2024-01-01", "2024-01-14"))
	assert.Equal(t, "static", Subject("static", "a", "b"))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "toil-report-2024-01-01-2024-01-14.csv", Filename("2024-01-01", "2024-01-14", "csv"))
}
