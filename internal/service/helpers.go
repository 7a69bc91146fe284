package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/alexanderramin/toil/internal/contract"
	"github.com/alexanderramin/toil/internal/domain"
	"github.com/alexanderramin/toil/internal/toil"
)

var localDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateLocalDate checks a YYYY-MM-DD query value.
func ValidateLocalDate(field, value string) error {
	if !localDatePattern.MatchString(value) {
		return fmt.Errorf("%w: %s must be YYYY-MM-DD", domain.ErrValidation, field)
	}
	if _, err := time.Parse(toil.DateLayout, value); err != nil {
		return fmt.Errorf("%w: %s is not a calendar date", domain.ErrValidation, field)
	}
	return nil
}

// localRange converts optional local dates into inclusive instant bounds.
func localRange(from, to string, loc *time.Location) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if from != "" {
		if err := ValidateLocalDate("from", from); err != nil {
			return nil, nil, err
		}
		t, err := toil.DayStartUTC(from, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		start = &t
	}
	if to != "" {
		if err := ValidateLocalDate("to", to); err != nil {
			return nil, nil, err
		}
		t, err := toil.DayEndUTC(to, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		end = &t
	}
	if from != "" && to != "" && from > to {
		return nil, nil, fmt.Errorf("%w: from must not be after to", domain.ErrValidation)
	}
	return start, end, nil
}

// shiftLocalDate returns the local date days after the date of now.
func shiftLocalDate(now time.Time, days int, loc *time.Location) string {
	local := now.In(loc)
	shifted := time.Date(local.Year(), local.Month(), local.Day()+days, 12, 0, 0, 0, loc)
	return shifted.Format(toil.DateLayout)
}

func toBreaks(in []contract.BreakInput) []domain.Break {
	out := make([]domain.Break, 0, len(in))
	for _, b := range in {
		out = append(out, domain.Break{StartedAt: b.StartedAt.UTC(), EndedAt: b.EndedAt.UTC()})
	}
	return out
}

func marshalPayload(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding audit payload: %w", err)
	}
	return data, nil
}
