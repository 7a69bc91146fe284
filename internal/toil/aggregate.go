package toil

import (
	"math"
	"sort"
	"time"

	"github.com/alexanderramin/toil/internal/domain"
)

// SessionDetail is the per-session line attached to a session's start date.
type SessionDetail struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
	Minutes   int       `json:"minutes"`
}

// DailyTotal is the rounded worked total and TOIL for one local date.
type DailyTotal struct {
	Date         string          `json:"date"`
	TotalMinutes int             `json:"totalMinutes"`
	TilMinutes   int             `json:"tilMinutes"`
	Sessions     []SessionDetail `json:"sessions"`
}

type dayAccumulator struct {
	minutes  int
	sessions []SessionDetail
}

// DailyTotals aggregates closed sessions into per-date totals in loc, sorted
// by date. Open sessions are skipped. Each session's net minutes are spread
// over the days its gross span touches in proportion to the gross minutes
// on each day, rounding every share on its own; shares of one session may
// therefore not add up exactly to its net minutes. Rounding is applied to
// the daily total before the comparison with the standard day.
func DailyTotals(sessions []domain.Session, settings domain.Settings, loc *time.Location) []DailyTotal {
	ordered := make([]domain.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.EndedAt != nil {
			ordered = append(ordered, s)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].StartedAt.Equal(ordered[j].StartedAt) {
			return ordered[i].StartedAt.Before(ordered[j].StartedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	days := make(map[string]*dayAccumulator)
	for _, s := range ordered {
		net := SessionMinutes(s)
		chunks := SplitByDay(s.StartedAt, *s.EndedAt, loc)
		startDate := DateString(s.StartedAt, loc)

		gross := 0
		for _, c := range chunks {
			gross += c.Minutes
		}

		for _, c := range chunks {
			share := 0.0
			if gross > 0 {
				share = float64(c.Minutes) / float64(gross)
			}

			day, ok := days[c.Date]
			if !ok {
				day = &dayAccumulator{}
				days[c.Date] = day
			}
			day.minutes += roundHalfUp(float64(net) * share)

			if c.Date == startDate {
				day.sessions = append(day.sessions, SessionDetail{
					ID:        s.ID,
					StartedAt: s.StartedAt,
					EndedAt:   *s.EndedAt,
					Minutes:   net,
				})
			}
		}
	}

	dates := make([]string, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	totals := make([]DailyTotal, 0, len(dates))
	for _, date := range dates {
		day := days[date]
		rounded := ApplyRounding(day.minutes, settings.RoundingRule)
		til := rounded - settings.StandardDailyMinutes
		if !settings.AllowNegativeTil {
			til = max(0, til)
		}
		details := day.sessions
		if details == nil {
			details = []SessionDetail{}
		}
		totals = append(totals, DailyTotal{
			Date:         date,
			TotalMinutes: rounded,
			TilMinutes:   til,
			Sessions:     details,
		})
	}
	return totals
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
