package toil

import (
	"time"

	"github.com/alexanderramin/toil/internal/domain"
)

// wholeMinutes truncates d toward zero to whole minutes.
func wholeMinutes(d time.Duration) int {
	return int(d / time.Minute)
}

// BreakMinutes sums break durations in whole minutes. A break whose end is
// not after its start contributes zero.
func BreakMinutes(breaks []domain.Break) int {
	total := 0
	for _, b := range breaks {
		total += max(0, wholeMinutes(b.EndedAt.Sub(b.StartedAt)))
	}
	return total
}

// SessionMinutes returns the net worked minutes of a session: gross span
// minus breaks, floored at zero. Open sessions and sessions ending at or
// before their start count as zero.
func SessionMinutes(s domain.Session) int {
	if s.EndedAt == nil {
		return 0
	}
	gross := wholeMinutes(s.EndedAt.Sub(s.StartedAt))
	if gross <= 0 {
		return 0
	}
	return max(0, gross-BreakMinutes(s.Breaks))
}
