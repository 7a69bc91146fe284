package toil

import (
	"fmt"
	"sort"
	"time"
)

// DateLayout is the key format for local calendar days.
const DateLayout = "2006-01-02"

// DayChunk is the part of a session's gross span that falls on one local day.
type DayChunk struct {
	Date    string
	Minutes int
}

// SplitByDay partitions [start, end] into per-day chunks in loc. Chunks are
// chronological and only days with a strictly positive whole-minute overlap
// are emitted, so a session ending exactly at local midnight yields no
// empty trailing chunk. Each day runs from its first local instant to the
// first local instant of the next day, exclusive.
func SplitByDay(start, end time.Time, loc *time.Location) []DayChunk {
	if !end.After(start) {
		return nil
	}

	lastDay := civilDate(end.In(loc))
	var chunks []DayChunk
	for day := civilDate(start.In(loc)); !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		segStart := dayStart(day, loc)
		if start.After(segStart) {
			segStart = start
		}
		segEnd := dayStart(day.AddDate(0, 0, 1), loc)
		if end.Before(segEnd) {
			segEnd = end
		}

		if mins := wholeMinutes(segEnd.Sub(segStart)); mins > 0 {
			chunks = append(chunks, DayChunk{Date: day.Format(DateLayout), Minutes: mins})
		}
	}
	return chunks
}

// DateString returns the local calendar date of t in loc.
func DateString(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// DayStartUTC returns the first instant of the local date in loc, in UTC.
func DayStartUTC(date string, loc *time.Location) (time.Time, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", date, err)
	}
	return dayStart(d, loc).UTC(), nil
}

// DayEndUTC returns the last millisecond of the local date in loc, in UTC.
func DayEndUTC(date string, loc *time.Location) (time.Time, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", date, err)
	}
	return dayStart(d.AddDate(0, 0, 1), loc).Add(-time.Millisecond).UTC(), nil
}

// civilDate returns the wall-clock date of t as midnight UTC. Calendar
// arithmetic on the result never meets a DST transition.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayStart returns the first instant in loc whose local date is day (a
// civilDate). Local midnight is usually that instant, but zones that move
// their clocks at midnight either skip it or repeat it, so those days are
// resolved by searching the surrounding 72 hours to the second.
func dayStart(day time.Time, loc *time.Location) time.Time {
	y, m, d := day.Date()
	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if civilDate(t).Equal(day) && civilDate(t.Add(-time.Second)).Before(day) {
		return t
	}

	lo := t.Add(-36 * time.Hour)
	i := sort.Search(72*60*60, func(i int) bool {
		return !civilDate(lo.Add(time.Duration(i) * time.Second)).Before(day)
	})
	return lo.Add(time.Duration(i) * time.Second)
}
