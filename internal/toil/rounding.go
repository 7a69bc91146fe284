package toil

import "github.com/alexanderramin/toil/internal/domain"

// ApplyRounding snaps minutes to the nearest multiple of the rule's interval.
// Exact halves round up (toward positive infinity), never to even.
// NONE and unrecognised rules return minutes unchanged.
func ApplyRounding(minutes int, rule domain.RoundingRule) int {
	interval := rule.Interval()
	if interval == 0 {
		return minutes
	}
	// round(m/i) == floor((2m + i) / 2i) with half-up semantics.
	return floorDiv(2*minutes+interval, 2*interval) * interval
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
