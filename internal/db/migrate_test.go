package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

const ts = "2024-01-15T00:00:00Z"

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"sessions", "breaks", "settings", "audit_log"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, idx := range []string{"idx_sessions_started", "idx_sessions_open", "idx_breaks_session", "idx_audit_log_created"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestMigrate_InMemoryJournalMode(t *testing.T) {
	// WAL only applies to file databases; in-memory ones report "memory".
	db := openTestDB(t)

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "memory", mode)
}

func TestMigrate_SessionSourceCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO sessions (id, started_at, source, created_at, updated_at) VALUES ('s1', ?, 'BOGUS', ?, ?)`, ts, ts, ts)
	assert.Error(t, err, "unknown source should be rejected")

	_, err = db.Exec(`INSERT INTO sessions (id, started_at, source, created_at, updated_at) VALUES ('s1', ?, 'SHORTCUT', ?, ?)`, ts, ts, ts)
	assert.NoError(t, err)
}

func TestMigrate_BreaksCascadeWithSession(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO sessions (id, started_at, created_at, updated_at) VALUES ('s1', ?, ?, ?)`, ts, ts, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO breaks (id, session_id, started_at, ended_at) VALUES ('b1', 's1', ?, ?)`, ts, ts)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM sessions WHERE id = 's1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM breaks`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestMigrate_BreakRequiresSession(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO breaks (id, session_id, started_at, ended_at) VALUES ('b1', 'missing', ?, ?)`, ts, ts)
	assert.Error(t, err)
}

func TestMigrate_SettingsIsSingleton(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO settings (id, created_at, updated_at) VALUES ('singleton', ?, ?)`, ts, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO settings (id, created_at, updated_at) VALUES ('other', ?, ?)`, ts, ts)
	assert.Error(t, err)

	var minutes int
	var rule, emails string
	err = db.QueryRow(`SELECT standard_daily_minutes, rounding_rule, report_recipient_emails FROM settings`).Scan(&minutes, &rule, &emails)
	require.NoError(t, err)
	assert.Equal(t, 456, minutes)
	assert.Equal(t, "NONE", rule)
	assert.Equal(t, "[]", emails)
}

func TestMigrate_SettingsStandardMinutesRange(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO settings (id, standard_daily_minutes, created_at, updated_at) VALUES ('singleton', 0, ?, ?)`, ts, ts)
	assert.Error(t, err)
}

func TestMigrate_AuditEventTypeCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO audit_log (id, event_type, created_at) VALUES ('a1', 'NOPE', ?)`, ts)
	assert.Error(t, err)

	_, err = db.Exec(`INSERT INTO audit_log (id, event_type, created_at) VALUES ('a1', 'CLOCK_IN', ?)`, ts)
	require.NoError(t, err)

	var payload string
	require.NoError(t, db.QueryRow(`SELECT payload FROM audit_log WHERE id = 'a1'`).Scan(&payload))
	assert.Equal(t, "{}", payload)
}

func TestOpenDB_CreatesParentDirectory(t *testing.T) {
	path := t.TempDir() + "/nested/dir/toil.db"
	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
