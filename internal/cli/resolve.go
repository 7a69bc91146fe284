package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/toil/internal/contract"
	"github.com/alexanderramin/toil/internal/domain"
)

const uuidLen = 36

// resolveSessionID accepts a full session ID or a unique prefix of one, as
// printed by "session list".
func resolveSessionID(ctx context.Context, app *App, input string) (string, error) {
	if len(input) >= uuidLen {
		return input, nil
	}
	if input == "" {
		return "", fmt.Errorf("%w: session ID is required", domain.ErrValidation)
	}

	sessions, err := app.Sessions.List(ctx, contract.ListSessionsRequest{})
	if err != nil {
		return "", err
	}
	var matches []string
	for _, s := range sessions {
		if strings.HasPrefix(s.ID, input) {
			matches = append(matches, s.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no session matches %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("session prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

var whenLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// parseWhen reads a point in time. Full timestamps carry or imply a zone;
// a bare HH:MM is taken as today in loc.
func parseWhen(input string, now time.Time, loc *time.Location) (time.Time, error) {
	input = strings.TrimSpace(input)
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, input, loc); err == nil {
			return t.UTC(), nil
		}
	}
	if t, err := time.ParseInLocation("15:04", input, loc); err == nil {
		y, m, d := now.In(loc).Date()
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: cannot read time %q (use HH:MM, \"YYYY-MM-DD HH:MM\" or RFC 3339)", domain.ErrValidation, input)
}

// parseOptionalWhen returns nil for an empty input.
func parseOptionalWhen(input string, now time.Time, loc *time.Location) (*time.Time, error) {
	if input == "" {
		return nil, nil
	}
	t, err := parseWhen(input, now, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseBreak reads a break written as START/END, for example 12:00/12:30.
// Bare HH:MM values fall on the local date of now.
func parseBreak(input string, now time.Time, loc *time.Location) (contract.BreakInput, error) {
	start, end, ok := strings.Cut(input, "/")
	if !ok {
		return contract.BreakInput{}, fmt.Errorf("%w: break %q must be START/END", domain.ErrValidation, input)
	}
	s, err := parseWhen(start, now, loc)
	if err != nil {
		return contract.BreakInput{}, err
	}
	e, err := parseWhen(end, now, loc)
	if err != nil {
		return contract.BreakInput{}, err
	}
	return contract.BreakInput{StartedAt: s, EndedAt: e}, nil
}

// anchorBreaks parses breaks with bare HH:MM values placed on the local date
// of the session start.
func anchorBreaks(raw []string, sessionStart time.Time, loc *time.Location) ([]contract.BreakInput, error) {
	breaks := make([]contract.BreakInput, 0, len(raw))
	for _, r := range raw {
		b, err := parseBreak(r, sessionStart, loc)
		if err != nil {
			return nil, err
		}
		breaks = append(breaks, b)
	}
	return breaks, nil
}
