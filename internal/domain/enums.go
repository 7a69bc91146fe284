package domain

import "fmt"

type SessionSource string

const (
	SourceManual   SessionSource = "MANUAL"
	SourceShortcut SessionSource = "SHORTCUT"
	SourceEdited   SessionSource = "EDITED"
)

// RoundingRule snaps a daily minute total to a fixed interval before the
// TOIL comparison. Unknown values are kept as-is so legacy rows still load.
type RoundingRule string

const (
	RoundNone      RoundingRule = "NONE"
	RoundNearest5  RoundingRule = "NEAREST_5"
	RoundNearest10 RoundingRule = "NEAREST_10"
	RoundNearest15 RoundingRule = "NEAREST_15"
)

// ValidRoundingRules is the canonical set of accepted rounding rules.
var ValidRoundingRules = []RoundingRule{RoundNone, RoundNearest5, RoundNearest10, RoundNearest15}

// Interval returns the snapping interval in minutes, or 0 when the rule does
// not round.
func (r RoundingRule) Interval() int {
	switch r {
	case RoundNearest5:
		return 5
	case RoundNearest10:
		return 10
	case RoundNearest15:
		return 15
	default:
		return 0
	}
}

// Valid reports whether r is one of ValidRoundingRules.
func (r RoundingRule) Valid() bool {
	for _, v := range ValidRoundingRules {
		if r == v {
			return true
		}
	}
	return false
}

// String implements pflag.Value.
func (r *RoundingRule) String() string {
	if r == nil || *r == "" {
		return string(RoundNone)
	}
	return string(*r)
}

// Set implements pflag.Value.
func (r *RoundingRule) Set(s string) error {
	rule := RoundingRule(s)
	if !rule.Valid() {
		return fmt.Errorf("%w: rounding rule must be one of NONE, NEAREST_5, NEAREST_10, NEAREST_15 (got %q)", ErrValidation, s)
	}
	*r = rule
	return nil
}

// Type implements pflag.Value.
func (r *RoundingRule) Type() string {
	return "rounding"
}

type AuditEventType string

const (
	AuditClockIn       AuditEventType = "CLOCK_IN"
	AuditClockOut      AuditEventType = "CLOCK_OUT"
	AuditEditSession   AuditEventType = "EDIT_SESSION"
	AuditDeleteSession AuditEventType = "DELETE_SESSION"
)
