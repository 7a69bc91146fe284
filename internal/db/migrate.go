package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Added columns are re-applied on every start.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id             TEXT PRIMARY KEY,
		started_at     TEXT NOT NULL,
		ended_at       TEXT,
		source         TEXT NOT NULL DEFAULT 'MANUAL'
		               CHECK(source IN ('MANUAL','SHORTCUT','EDITED')),
		location_label TEXT,
		latitude       REAL,
		longitude      REAL,
		notes          TEXT,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_open ON sessions(started_at) WHERE ended_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS breaks (
		id         TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		started_at TEXT NOT NULL,
		ended_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_breaks_session ON breaks(session_id)`,

	`CREATE TABLE IF NOT EXISTS settings (
		id                            TEXT PRIMARY KEY CHECK(id = 'singleton'),
		standard_daily_minutes        INTEGER NOT NULL DEFAULT 456
		                              CHECK(standard_daily_minutes BETWEEN 1 AND 1440),
		rounding_rule                 TEXT NOT NULL DEFAULT 'NONE',
		allow_negative_til            INTEGER NOT NULL DEFAULT 0,
		overtime_starts_after_minutes INTEGER,
		work_location_geofence_name   TEXT,
		report_recipient_emails       TEXT NOT NULL DEFAULT '[]',
		report_subject_template       TEXT NOT NULL DEFAULT '',
		report_footer                 TEXT NOT NULL DEFAULT '',
		created_at                    TEXT NOT NULL,
		updated_at                    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS audit_log (
		id         TEXT PRIMARY KEY,
		event_type TEXT NOT NULL
		           CHECK(event_type IN ('CLOCK_IN','CLOCK_OUT','EDIT_SESSION','DELETE_SESSION')),
		payload    TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_audit_log_created ON audit_log(created_at)`,
}
