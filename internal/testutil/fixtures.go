package testutil

import (
	"time"

	"github.com/alexanderramin/toil/internal/domain"
	"github.com/google/uuid"
)

// SessionOption customises a fixture session.
type SessionOption func(*domain.Session)

// WithBreak appends a break of the given length starting offset after the
// session start.
func WithBreak(offset, length time.Duration) SessionOption {
	return func(s *domain.Session) {
		start := s.StartedAt.Add(offset)
		s.Breaks = append(s.Breaks, domain.Break{
			ID:        uuid.New().String(),
			SessionID: s.ID,
			StartedAt: start,
			EndedAt:   start.Add(length),
		})
	}
}

func WithSource(src domain.SessionSource) SessionOption {
	return func(s *domain.Session) {
		s.Source = src
	}
}

func WithNotes(notes string) SessionOption {
	return func(s *domain.Session) {
		s.Notes = &notes
	}
}

func WithLocation(label string, lat, lng float64) SessionOption {
	return func(s *domain.Session) {
		s.LocationLabel = &label
		s.Latitude = &lat
		s.Longitude = &lng
	}
}

// Open clears the end time so the session is still running.
func Open() SessionOption {
	return func(s *domain.Session) {
		s.EndedAt = nil
	}
}

// NewTestSession builds a closed MANUAL session running for length from start.
func NewTestSession(start time.Time, length time.Duration, opts ...SessionOption) *domain.Session {
	now := time.Now().UTC()
	end := start.Add(length)
	s := &domain.Session{
		ID:        uuid.New().String(),
		StartedAt: start.UTC(),
		EndedAt:   &end,
		Breaks:    []domain.Break{},
		Source:    domain.SourceManual,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SettingsOption customises fixture settings.
type SettingsOption func(*domain.Settings)

func WithStandardMinutes(m int) SettingsOption {
	return func(s *domain.Settings) {
		s.StandardDailyMinutes = m
	}
}

func WithRounding(rule domain.RoundingRule) SettingsOption {
	return func(s *domain.Settings) {
		s.RoundingRule = rule
	}
}

func WithNegativeTil() SettingsOption {
	return func(s *domain.Settings) {
		s.AllowNegativeTil = true
	}
}

func WithReportFooter(footer string) SettingsOption {
	return func(s *domain.Settings) {
		s.ReportFooter = footer
	}
}

func WithRecipients(emails ...string) SettingsOption {
	return func(s *domain.Settings) {
		s.ReportRecipientEmails = emails
	}
}

// NewTestSettings starts from the defaults.
func NewTestSettings(opts ...SettingsOption) *domain.Settings {
	s := domain.DefaultSettings(time.Now().UTC())
	for _, o := range opts {
		o(s)
	}
	return s
}

// MustTime parses an RFC3339 timestamp and panics on malformed input.
func MustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// FixedClock returns a clock function pinned to t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
