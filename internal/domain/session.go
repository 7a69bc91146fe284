package domain

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Break is a pause inside a work session. Breaks may be malformed (end
// before start); consumers treat those as contributing nothing.
type Break struct {
	ID        string
	SessionID string
	StartedAt time.Time
	EndedAt   time.Time
}

// Session is a clocked-in interval. A nil EndedAt marks an open session.
type Session struct {
	ID            string
	StartedAt     time.Time
	EndedAt       *time.Time
	Breaks        []Break
	Source        SessionSource
	LocationLabel *string
	Latitude      *float64
	Longitude     *float64
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsOpen reports whether the session is still running.
func (s *Session) IsOpen() bool {
	return s.EndedAt == nil
}

// Overlaps reports whether the session intersects [start, end]. An open
// session is treated as extending forever; a nil end means the other
// interval is open too. Touching endpoints count as overlap.
func (s *Session) Overlaps(start time.Time, end *time.Time) bool {
	if end != nil && s.StartedAt.After(*end) {
		return false
	}
	if s.EndedAt != nil && s.EndedAt.Before(start) {
		return false
	}
	return true
}

const (
	maxLocationLabelLen = 255
	maxNotesLen         = 2000
	maxIdempotencyKey   = 128
)

// SessionDetails are the descriptive, user-supplied fields of a session.
type SessionDetails struct {
	LocationLabel *string
	Latitude      *float64
	Longitude     *float64
	Notes         *string
}

// Validate checks the length and coordinate bounds of the details.
func (d SessionDetails) Validate() error {
	if d.LocationLabel != nil && utf8.RuneCountInString(*d.LocationLabel) > maxLocationLabelLen {
		return fmt.Errorf("%w: locationLabel exceeds %d characters", ErrValidation, maxLocationLabelLen)
	}
	if d.Notes != nil && utf8.RuneCountInString(*d.Notes) > maxNotesLen {
		return fmt.Errorf("%w: notes exceed %d characters", ErrValidation, maxNotesLen)
	}
	if d.Latitude != nil && (*d.Latitude < -90 || *d.Latitude > 90) {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrValidation)
	}
	if d.Longitude != nil && (*d.Longitude < -180 || *d.Longitude > 180) {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrValidation)
	}
	return nil
}

// ValidateIdempotencyKey checks the optional client-supplied retry key.
func ValidateIdempotencyKey(key string) error {
	if utf8.RuneCountInString(key) > maxIdempotencyKey {
		return fmt.Errorf("%w: idempotencyKey exceeds %d characters", ErrValidation, maxIdempotencyKey)
	}
	return nil
}
