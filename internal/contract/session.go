package contract

import (
	"time"

	"github.com/alexanderramin/toil/internal/domain"
)

// ClockInRequest opens a session unless one is already running inside the
// look-back window.
type ClockInRequest struct {
	Now            *time.Time
	StartedAt      *time.Time
	Details        domain.SessionDetails
	IdempotencyKey string
	// ViaShortcut marks requests authenticated by API key, which record a
	// SHORTCUT source instead of MANUAL.
	ViaShortcut bool
}

type ClockInResponse struct {
	AlreadyClockedIn bool
	Session          *domain.Session
}

type ClockOutRequest struct {
	Now            *time.Time
	EndedAt        *time.Time
	IdempotencyKey string
}

type ClockOutResponse struct {
	Session *domain.Session
}

type BreakInput struct {
	StartedAt time.Time
	EndedAt   time.Time
}

// CreateSessionRequest adds a session by hand, possibly with breaks.
type CreateSessionRequest struct {
	Now       *time.Time
	StartedAt time.Time
	EndedAt   *time.Time
	Details   domain.SessionDetails
	Breaks    []BreakInput
}

// OverlapWarning is returned alongside a created session that intersects an
// existing one. Creation still succeeds.
const OverlapWarning = "This session overlaps with an existing session. Please review."

type CreateSessionResponse struct {
	Session              *domain.Session
	Warning              string
	OverlappingSessionID string
}

// UpdateSessionRequest is a partial update. Nil fields are untouched; the
// double pointers distinguish "leave" from "clear". Non-nil Breaks replaces
// every existing break.
type UpdateSessionRequest struct {
	Now           *time.Time
	StartedAt     *time.Time
	EndedAt       **time.Time
	LocationLabel **string
	Latitude      **float64
	Longitude     **float64
	Notes         **string
	Breaks        *[]BreakInput
}

// ListSessionsRequest filters by local start date (YYYY-MM-DD). Empty
// bounds are open.
type ListSessionsRequest struct {
	From string
	To   string
}
