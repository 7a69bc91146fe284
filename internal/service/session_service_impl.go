package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/toil/internal/contract"
	"github.com/alexanderramin/toil/internal/db"
	"github.com/alexanderramin/toil/internal/domain"
	"github.com/alexanderramin/toil/internal/repository"
	"github.com/google/uuid"
)

type sessionService struct {
	sessions repository.SessionRepo
	uow      db.UnitOfWork
	opts     Options
	observer UseCaseObserver
}

// NewSessionService builds the session use cases. Writes run inside uow with
// tx-scoped repositories; sessions serves plain reads.
func NewSessionService(
	sessions repository.SessionRepo,
	uow db.UnitOfWork,
	opts Options,
	observers ...UseCaseObserver,
) SessionService {
	return &sessionService{
		sessions: sessions,
		uow:      uow,
		opts:     opts.withDefaults(),
		observer: useCaseObserverOrNoop(observers),
	}
}

type clockInPayload struct {
	SessionID      string               `json:"sessionId"`
	StartedAt      time.Time            `json:"startedAt"`
	Source         domain.SessionSource `json:"source"`
	IdempotencyKey string               `json:"idempotencyKey,omitempty"`
}

func (s *sessionService) ClockIn(ctx context.Context, req contract.ClockInRequest) (resp *contract.ClockInResponse, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "clock-in", time.Now(), fields, &err)

	if err = req.Details.Validate(); err != nil {
		return nil, err
	}
	if err = domain.ValidateIdempotencyKey(req.IdempotencyKey); err != nil {
		return nil, err
	}

	now := s.opts.now(req.Now)
	startedAt := domain.TimeFromPtrWithDefault(now, req.StartedAt).UTC()
	source := domain.SourceManual
	if req.ViaShortcut {
		source = domain.SourceShortcut
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)

		open, findErr := txSessions.FindOpenSince(ctx, now.Add(-s.opts.OpenSessionLookback))
		if findErr == nil {
			resp = &contract.ClockInResponse{AlreadyClockedIn: true, Session: open}
			return nil
		}
		if !errors.Is(findErr, repository.ErrNotFound) {
			return findErr
		}

		session := &domain.Session{
			ID:            uuid.New().String(),
			StartedAt:     startedAt,
			Breaks:        []domain.Break{},
			Source:        source,
			LocationLabel: req.Details.LocationLabel,
			Latitude:      req.Details.Latitude,
			Longitude:     req.Details.Longitude,
			Notes:         req.Details.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := txSessions.Create(ctx, session); err != nil {
			return err
		}

		payload, err := marshalPayload(clockInPayload{
			SessionID:      session.ID,
			StartedAt:      session.StartedAt,
			Source:         source,
			IdempotencyKey: req.IdempotencyKey,
		})
		if err != nil {
			return err
		}
		if err := appendAudit(ctx, tx, domain.AuditClockIn, payload, now); err != nil {
			return err
		}
		resp = &contract.ClockInResponse{Session: session}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["session_id"] = resp.Session.ID
	fields["already_clocked_in"] = resp.AlreadyClockedIn
	return resp, nil
}

type clockOutPayload struct {
	SessionID      string    `json:"sessionId"`
	EndedAt        time.Time `json:"endedAt"`
	IdempotencyKey string    `json:"idempotencyKey,omitempty"`
}

func (s *sessionService) ClockOut(ctx context.Context, req contract.ClockOutRequest) (resp *contract.ClockOutResponse, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "clock-out", time.Now(), fields, &err)

	if err = domain.ValidateIdempotencyKey(req.IdempotencyKey); err != nil {
		return nil, err
	}

	now := s.opts.now(req.Now)
	endedAt := domain.TimeFromPtrWithDefault(now, req.EndedAt).UTC()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)

		open, err := txSessions.FindLatestOpen(ctx)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoOpenSession
		}
		if err != nil {
			return err
		}

		open.EndedAt = &endedAt
		open.UpdatedAt = now
		if err := txSessions.Update(ctx, open); err != nil {
			return err
		}

		payload, err := marshalPayload(clockOutPayload{
			SessionID:      open.ID,
			EndedAt:        endedAt,
			IdempotencyKey: req.IdempotencyKey,
		})
		if err != nil {
			return err
		}
		if err := appendAudit(ctx, tx, domain.AuditClockOut, payload, now); err != nil {
			return err
		}
		resp = &contract.ClockOutResponse{Session: open}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["session_id"] = resp.Session.ID
	return resp, nil
}

func (s *sessionService) Current(ctx context.Context) (*domain.Session, error) {
	open, err := s.sessions.FindLatestOpen(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return open, err
}

func (s *sessionService) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	return s.sessions.GetByID(ctx, id)
}

// List returns sessions whose local start date falls inside the range,
// newest first.
func (s *sessionService) List(ctx context.Context, req contract.ListSessionsRequest) ([]*domain.Session, error) {
	from, to, err := localRange(req.From, req.To, s.opts.Location)
	if err != nil {
		return nil, err
	}
	return s.sessions.ListStartedBetween(ctx, from, to, true)
}

func (s *sessionService) Create(ctx context.Context, req contract.CreateSessionRequest) (resp *contract.CreateSessionResponse, err error) {
	fields := map[string]any{"breaks": len(req.Breaks)}
	defer observe(ctx, s.observer, "create-session", time.Now(), fields, &err)

	if err = req.Details.Validate(); err != nil {
		return nil, err
	}

	now := s.opts.now(req.Now)
	var endedAt *time.Time
	if req.EndedAt != nil {
		e := req.EndedAt.UTC()
		endedAt = &e
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)

		overlapping, err := txSessions.FindOverlapping(ctx, req.StartedAt.UTC(), endedAt, "")
		if err != nil {
			return err
		}

		session := &domain.Session{
			ID:            uuid.New().String(),
			StartedAt:     req.StartedAt.UTC(),
			EndedAt:       endedAt,
			Breaks:        toBreaks(req.Breaks),
			Source:        domain.SourceManual,
			LocationLabel: req.Details.LocationLabel,
			Latitude:      req.Details.Latitude,
			Longitude:     req.Details.Longitude,
			Notes:         req.Details.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := txSessions.Create(ctx, session); err != nil {
			return err
		}

		resp = &contract.CreateSessionResponse{Session: session}
		if len(overlapping) > 0 {
			resp.Warning = contract.OverlapWarning
			resp.OverlappingSessionID = overlapping[0].ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["session_id"] = resp.Session.ID
	fields["overlap"] = resp.OverlappingSessionID != ""
	return resp, nil
}

type editPayload struct {
	SessionID string         `json:"sessionId"`
	Changes   map[string]any `json:"changes"`
}

func (s *sessionService) Update(ctx context.Context, id string, req contract.UpdateSessionRequest) (session *domain.Session, err error) {
	fields := map[string]any{"session_id": id}
	defer observe(ctx, s.observer, "update-session", time.Now(), fields, &err)

	now := s.opts.now(req.Now)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)

		existing, err := txSessions.GetByID(ctx, id)
		if err != nil {
			return err
		}

		changes := applySessionPatch(existing, req)
		details := domain.SessionDetails{
			LocationLabel: existing.LocationLabel,
			Latitude:      existing.Latitude,
			Longitude:     existing.Longitude,
			Notes:         existing.Notes,
		}
		if err := details.Validate(); err != nil {
			return err
		}

		existing.Source = domain.SourceEdited
		existing.UpdatedAt = now
		if req.Breaks != nil {
			if err := txSessions.ReplaceBreaks(ctx, id, toBreaks(*req.Breaks)); err != nil {
				return err
			}
		}
		if err := txSessions.Update(ctx, existing); err != nil {
			return err
		}

		payload, err := marshalPayload(editPayload{SessionID: id, Changes: changes})
		if err != nil {
			return err
		}
		if err := appendAudit(ctx, tx, domain.AuditEditSession, payload, now); err != nil {
			return err
		}

		session, err = txSessions.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// applySessionPatch copies the set fields of req onto s and returns them as
// an audit change set.
func applySessionPatch(s *domain.Session, req contract.UpdateSessionRequest) map[string]any {
	changes := map[string]any{}
	if req.StartedAt != nil {
		s.StartedAt = req.StartedAt.UTC()
		changes["startedAt"] = s.StartedAt
	}
	if req.EndedAt != nil {
		s.EndedAt = nil
		if *req.EndedAt != nil {
			e := (*req.EndedAt).UTC()
			s.EndedAt = &e
		}
		changes["endedAt"] = s.EndedAt
	}
	if req.LocationLabel != nil {
		s.LocationLabel = *req.LocationLabel
		changes["locationLabel"] = s.LocationLabel
	}
	if req.Latitude != nil {
		s.Latitude = *req.Latitude
		changes["latitude"] = s.Latitude
	}
	if req.Longitude != nil {
		s.Longitude = *req.Longitude
		changes["longitude"] = s.Longitude
	}
	if req.Notes != nil {
		s.Notes = *req.Notes
		changes["notes"] = s.Notes
	}
	if req.Breaks != nil {
		changes["breaks"] = *req.Breaks
	}
	return changes
}

type deletePayload struct {
	SessionID string     `json:"sessionId"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt"`
}

func (s *sessionService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-session", time.Now(), map[string]any{"session_id": id}, &err)

	now := s.opts.now(nil)
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)

		existing, err := txSessions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := txSessions.Delete(ctx, id); err != nil {
			return err
		}

		payload, err := marshalPayload(deletePayload{
			SessionID: id,
			StartedAt: existing.StartedAt,
			EndedAt:   existing.EndedAt,
		})
		if err != nil {
			return err
		}
		return appendAudit(ctx, tx, domain.AuditDeleteSession, payload, now)
	})
}

func appendAudit(ctx context.Context, tx db.DBTX, eventType domain.AuditEventType, payload []byte, now time.Time) error {
	return repository.NewSQLiteAuditRepo(tx).Append(ctx, &domain.AuditEvent{
		ID:        uuid.New().String(),
		EventType: eventType,
		Payload:   payload,
		CreatedAt: now,
	})
}
