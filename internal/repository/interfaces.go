package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/toil/internal/domain"
)

// SessionRepo persists sessions together with their breaks. Every returned
// session has Breaks loaded, ordered by break start.
type SessionRepo interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	// FindOpenSince returns the newest open session started at or after since.
	FindOpenSince(ctx context.Context, since time.Time) (*domain.Session, error)
	// FindLatestOpen returns the newest open session regardless of age.
	FindLatestOpen(ctx context.Context) (*domain.Session, error)
	// ListStartedBetween filters on started_at within [from, to]; nil bounds
	// are open.
	ListStartedBetween(ctx context.Context, from, to *time.Time, desc bool) ([]*domain.Session, error)
	// FindOverlapping returns sessions intersecting [start, end]. A nil end
	// treats the queried interval as open-ended, and stored open sessions extend forever.
	FindOverlapping(ctx context.Context, start time.Time, end *time.Time, excludeID string) ([]*domain.Session, error)
	Update(ctx context.Context, s *domain.Session) error
	ReplaceBreaks(ctx context.Context, sessionID string, breaks []domain.Break) error
	Delete(ctx context.Context, id string) error
}

type SettingsRepo interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Upsert(ctx context.Context, s *domain.Settings) error
}

type AuditRepo interface {
	Append(ctx context.Context, e *domain.AuditEvent) error
	ListRecent(ctx context.Context, limit int) ([]*domain.AuditEvent, error)
}
