package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/toil/internal/db"
	"github.com/alexanderramin/toil/internal/domain"
)

// SQLiteAuditRepo implements AuditRepo. The log is append-only.
type SQLiteAuditRepo struct {
	db db.DBTX
}

func NewSQLiteAuditRepo(conn db.DBTX) *SQLiteAuditRepo {
	return &SQLiteAuditRepo{db: conn}
}

func (r *SQLiteAuditRepo) Append(ctx context.Context, e *domain.AuditEvent) error {
	payload := string(e.Payload)
	if payload == "" {
		payload = "{}"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, event_type, payload, created_at) VALUES (?, ?, ?, ?)`,
		e.ID, string(e.EventType), payload, formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("appending audit event: %w", err)
	}
	return nil
}

// ListRecent returns up to limit events, newest first.
func (r *SQLiteAuditRepo) ListRecent(ctx context.Context, limit int) ([]*domain.AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_type, payload, created_at FROM audit_log
		ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing audit events: %w", err)
	}
	defer rows.Close()

	events := []*domain.AuditEvent{}
	for rows.Next() {
		var e domain.AuditEvent
		var eventType, payload, createdAtStr string
		if err := rows.Scan(&e.ID, &eventType, &payload, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning audit row: %w", err)
		}
		e.EventType = domain.AuditEventType(eventType)
		e.Payload = []byte(payload)
		if e.CreatedAt, err = parseTime(createdAtStr, "created_at"); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit events: %w", err)
	}
	return events, nil
}
