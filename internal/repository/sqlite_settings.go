package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/toil/internal/db"
	"github.com/alexanderramin/toil/internal/domain"
)

// SQLiteSettingsRepo implements SettingsRepo over the single settings row.
type SQLiteSettingsRepo struct {
	db db.DBTX
}

func NewSQLiteSettingsRepo(conn db.DBTX) *SQLiteSettingsRepo {
	return &SQLiteSettingsRepo{db: conn}
}

func (r *SQLiteSettingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	query := `SELECT id, standard_daily_minutes, rounding_rule, allow_negative_til,
		overtime_starts_after_minutes, work_location_geofence_name, report_recipient_emails,
		report_subject_template, report_footer, created_at, updated_at
		FROM settings WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, domain.SettingsID)

	var s domain.Settings
	var rule, emailsJSON, createdAtStr, updatedAtStr string
	var allowNegative int
	var overtime sql.NullInt64
	var geofence sql.NullString

	err := row.Scan(
		&s.ID,
		&s.StandardDailyMinutes,
		&rule,
		&allowNegative,
		&overtime,
		&geofence,
		&emailsJSON,
		&s.ReportSubjectTemplate,
		&s.ReportFooter,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("settings: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning settings: %w", err)
	}

	s.RoundingRule = domain.RoundingRule(rule)
	s.AllowNegativeTil = intToBool(allowNegative)
	s.OvertimeStartsAfterMinutes = nullIntPtr(overtime)
	s.WorkLocationGeofenceName = nullStringPtr(geofence)

	s.ReportRecipientEmails = []string{}
	if emailsJSON != "" {
		if err := json.Unmarshal([]byte(emailsJSON), &s.ReportRecipientEmails); err != nil {
			return nil, fmt.Errorf("decoding report_recipient_emails: %w", err)
		}
	}
	if s.CreatedAt, err = parseTime(createdAtStr, "created_at"); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTime(updatedAtStr, "updated_at"); err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert writes the singleton row. created_at is kept from the first insert.
func (r *SQLiteSettingsRepo) Upsert(ctx context.Context, s *domain.Settings) error {
	emails := s.ReportRecipientEmails
	if emails == nil {
		emails = []string{}
	}
	emailsJSON, err := json.Marshal(emails)
	if err != nil {
		return fmt.Errorf("encoding report_recipient_emails: %w", err)
	}

	query := `INSERT INTO settings (id, standard_daily_minutes, rounding_rule, allow_negative_til,
		overtime_starts_after_minutes, work_location_geofence_name, report_recipient_emails,
		report_subject_template, report_footer, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			standard_daily_minutes = excluded.standard_daily_minutes,
			rounding_rule = excluded.rounding_rule,
			allow_negative_til = excluded.allow_negative_til,
			overtime_starts_after_minutes = excluded.overtime_starts_after_minutes,
			work_location_geofence_name = excluded.work_location_geofence_name,
			report_recipient_emails = excluded.report_recipient_emails,
			report_subject_template = excluded.report_subject_template,
			report_footer = excluded.report_footer,
			updated_at = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query,
		domain.SettingsID,
		s.StandardDailyMinutes,
		string(s.RoundingRule),
		boolToInt(s.AllowNegativeTil),
		nullableIntToValue(s.OvertimeStartsAfterMinutes),
		nullableStringToValue(s.WorkLocationGeofenceName),
		string(emailsJSON),
		s.ReportSubjectTemplate,
		s.ReportFooter,
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting settings: %w", err)
	}
	return nil
}
