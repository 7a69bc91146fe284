package report

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{"Date", "Session Start", "Session End", "Session Minutes", "Day Total Minutes", "Day TOIL Minutes"}

// RenderCSV writes one row per session. Day columns are filled on the first
// session row of each date only.
func RenderCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)

	records := [][]string{
		{"TOIL Tracker Report", r.From + " to " + r.To},
		{},
		csvHeader,
	}
	for _, day := range r.Days {
		total := strconv.Itoa(day.TotalMinutes)
		til := strconv.Itoa(day.TilMinutes)
		if len(day.Sessions) == 0 {
			records = append(records, []string{day.Date, "", "", "", total, til})
			continue
		}
		for i, s := range day.Sessions {
			row := []string{"", r.Clock(s.StartedAt), r.Clock(s.EndedAt), strconv.Itoa(s.Minutes), "", ""}
			if i == 0 {
				row[0], row[4], row[5] = day.Date, total, til
			}
			records = append(records, row)
		}
	}

	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}
