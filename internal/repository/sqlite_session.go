package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/toil/internal/db"
	"github.com/alexanderramin/toil/internal/domain"
	"github.com/google/uuid"
)

const sessionColumns = `id, started_at, ended_at, source, location_label, latitude, longitude, notes, created_at, updated_at`

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo.
func NewSQLiteSessionRepo(conn db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: conn}
}

func (r *SQLiteSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	query := `INSERT INTO sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		formatTime(s.StartedAt),
		nullableTimeToString(s.EndedAt),
		string(s.Source),
		nullableStringToValue(s.LocationLabel),
		nullableFloatToValue(s.Latitude),
		nullableFloatToValue(s.Longitude),
		nullableStringToValue(s.Notes),
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return r.insertBreaks(ctx, s.ID, s.Breaks)
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`
	return r.getOne(ctx, "session", query, id)
}

func (r *SQLiteSessionRepo) FindOpenSince(ctx context.Context, since time.Time) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE ended_at IS NULL AND started_at >= ?
		ORDER BY started_at DESC LIMIT 1`
	return r.getOne(ctx, "open session", query, formatTime(since))
}

func (r *SQLiteSessionRepo) FindLatestOpen(ctx context.Context) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE ended_at IS NULL
		ORDER BY started_at DESC LIMIT 1`
	return r.getOne(ctx, "open session", query)
}

func (r *SQLiteSessionRepo) ListStartedBetween(ctx context.Context, from, to *time.Time, desc bool) ([]*domain.Session, error) {
	var where []string
	var args []any
	if from != nil {
		where = append(where, "started_at >= ?")
		args = append(args, formatTime(*from))
	}
	if to != nil {
		where = append(where, "started_at <= ?")
		args = append(args, formatTime(*to))
	}

	query := `SELECT ` + sessionColumns + ` FROM sessions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	if desc {
		query += ` ORDER BY started_at DESC, id DESC`
	} else {
		query += ` ORDER BY started_at, id`
	}
	return r.list(ctx, query, args...)
}

func (r *SQLiteSessionRepo) FindOverlapping(ctx context.Context, start time.Time, end *time.Time, excludeID string) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE id != ?
		  AND (ended_at IS NULL OR ended_at >= ?)`
	args := []any{excludeID, formatTime(start)}
	if end != nil {
		query += ` AND started_at <= ?`
		args = append(args, formatTime(*end))
	}
	query += ` ORDER BY started_at, id`
	return r.list(ctx, query, args...)
}

func (r *SQLiteSessionRepo) Update(ctx context.Context, s *domain.Session) error {
	query := `UPDATE sessions SET started_at = ?, ended_at = ?, source = ?, location_label = ?,
		latitude = ?, longitude = ?, notes = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		formatTime(s.StartedAt),
		nullableTimeToString(s.EndedAt),
		string(s.Source),
		nullableStringToValue(s.LocationLabel),
		nullableFloatToValue(s.Latitude),
		nullableFloatToValue(s.Longitude),
		nullableStringToValue(s.Notes),
		formatTime(s.UpdatedAt),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	return requireAffected(res, "session")
}

// ReplaceBreaks deletes every break of the session and inserts breaks in
// their place. The session row is not touched.
func (r *SQLiteSessionRepo) ReplaceBreaks(ctx context.Context, sessionID string, breaks []domain.Break) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM breaks WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("deleting breaks: %w", err)
	}
	return r.insertBreaks(ctx, sessionID, breaks)
}

func (r *SQLiteSessionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return requireAffected(res, "session")
}

func (r *SQLiteSessionRepo) insertBreaks(ctx context.Context, sessionID string, breaks []domain.Break) error {
	for i := range breaks {
		b := &breaks[i]
		if b.ID == "" {
			b.ID = uuid.New().String()
		}
		b.SessionID = sessionID
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO breaks (id, session_id, started_at, ended_at) VALUES (?, ?, ?, ?)`,
			b.ID, sessionID, formatTime(b.StartedAt), formatTime(b.EndedAt),
		)
		if err != nil {
			return fmt.Errorf("inserting break: %w", err)
		}
	}
	return nil
}

func (r *SQLiteSessionRepo) getOne(ctx context.Context, what, query string, args ...any) (*domain.Session, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", what, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning %s: %w", what, err)
	}
	if err := r.attachBreaks(ctx, []*domain.Session{s}); err != nil {
		return nil, err
	}
	return s, nil
}

// list drains the session rows before loading breaks so only one result set
// is open on the connection at a time.
func (r *SQLiteSessionRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Session, error) {
	sessions, err := r.querySessions(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if err := r.attachBreaks(ctx, sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SQLiteSessionRepo) querySessions(ctx context.Context, query string, args ...any) ([]*domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*domain.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

// breakBatchSize keeps each IN list well below SQLite's bound-variable limit.
const breakBatchSize = 500

func (r *SQLiteSessionRepo) attachBreaks(ctx context.Context, sessions []*domain.Session) error {
	byID := make(map[string]*domain.Session, len(sessions))
	ids := make([]any, 0, len(sessions))
	for _, s := range sessions {
		s.Breaks = []domain.Break{}
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}

	for len(ids) > 0 {
		n := min(len(ids), breakBatchSize)
		if err := r.loadBreaks(ctx, ids[:n], byID); err != nil {
			return err
		}
		ids = ids[n:]
	}
	return nil
}

func (r *SQLiteSessionRepo) loadBreaks(ctx context.Context, ids []any, byID map[string]*domain.Session) error {
	query := `SELECT id, session_id, started_at, ended_at FROM breaks
		WHERE session_id IN (` + placeholders(len(ids)) + `)
		ORDER BY started_at, id`
	rows, err := r.db.QueryContext(ctx, query, ids...)
	if err != nil {
		return fmt.Errorf("listing breaks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b domain.Break
		var startedAtStr, endedAtStr string
		if err := rows.Scan(&b.ID, &b.SessionID, &startedAtStr, &endedAtStr); err != nil {
			return fmt.Errorf("scanning break row: %w", err)
		}
		if b.StartedAt, err = parseTime(startedAtStr, "break started_at"); err != nil {
			return err
		}
		if b.EndedAt, err = parseTime(endedAtStr, "break ended_at"); err != nil {
			return err
		}
		if s, ok := byID[b.SessionID]; ok {
			s.Breaks = append(s.Breaks, b)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating breaks: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var s domain.Session
	var startedAtStr, createdAtStr, updatedAtStr, source string
	var endedAt, locationLabel, notes sql.NullString
	var latitude, longitude sql.NullFloat64

	err := row.Scan(
		&s.ID, &startedAtStr, &endedAt, &source, &locationLabel,
		&latitude, &longitude, &notes, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	s.Source = domain.SessionSource(source)
	s.LocationLabel = nullStringPtr(locationLabel)
	s.Latitude = nullFloatPtr(latitude)
	s.Longitude = nullFloatPtr(longitude)
	s.Notes = nullStringPtr(notes)

	if s.StartedAt, err = parseTime(startedAtStr, "started_at"); err != nil {
		return nil, err
	}
	if s.EndedAt, err = parseNullableTime(endedAt, "ended_at"); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = parseTime(createdAtStr, "created_at"); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTime(updatedAtStr, "updated_at"); err != nil {
		return nil, err
	}
	return &s, nil
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
