package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"time"
	"unicode/utf8"
)

// ErrValidation marks input rejected before it reaches storage or the engine.
var ErrValidation = errors.New("validation failed")

// SettingsID is the primary key of the single settings row.
const SettingsID = "singleton"

const (
	DefaultStandardDailyMinutes  = 456
	DefaultReportSubjectTemplate = "TOIL report {from} to {to}"
)

// Settings is the TOIL policy plus report preferences.
type Settings struct {
	ID                         string
	StandardDailyMinutes       int
	RoundingRule               RoundingRule
	AllowNegativeTil           bool
	OvertimeStartsAfterMinutes *int
	WorkLocationGeofenceName   *string
	ReportRecipientEmails      []string
	ReportSubjectTemplate      string
	ReportFooter               string
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// DefaultSettings returns the values used before anything has been saved.
func DefaultSettings(now time.Time) *Settings {
	return &Settings{
		ID:                    SettingsID,
		StandardDailyMinutes:  DefaultStandardDailyMinutes,
		RoundingRule:          RoundNone,
		ReportRecipientEmails: []string{},
		ReportSubjectTemplate: DefaultReportSubjectTemplate,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// SettingsPatch carries a partial settings update. Nil fields are left
// untouched. The double pointers distinguish "leave" from "clear".
type SettingsPatch struct {
	StandardDailyMinutes       *int
	RoundingRule               *RoundingRule
	AllowNegativeTil           *bool
	OvertimeStartsAfterMinutes **int
	WorkLocationGeofenceName   **string
	ReportRecipientEmails      *[]string
	ReportSubjectTemplate      *string
	ReportFooter               *string
}

// Validate checks the patch against the accepted ranges.
func (p SettingsPatch) Validate() error {
	if p.StandardDailyMinutes != nil && (*p.StandardDailyMinutes < 1 || *p.StandardDailyMinutes > 1440) {
		return fmt.Errorf("%w: standardDailyMinutes must be between 1 and 1440", ErrValidation)
	}
	if p.RoundingRule != nil && !p.RoundingRule.Valid() {
		return fmt.Errorf("%w: unknown rounding rule %q", ErrValidation, *p.RoundingRule)
	}
	if p.OvertimeStartsAfterMinutes != nil && *p.OvertimeStartsAfterMinutes != nil && **p.OvertimeStartsAfterMinutes < 0 {
		return fmt.Errorf("%w: overtimeStartsAfterMinutes must not be negative", ErrValidation)
	}
	if p.WorkLocationGeofenceName != nil && *p.WorkLocationGeofenceName != nil && utf8.RuneCountInString(**p.WorkLocationGeofenceName) > 255 {
		return fmt.Errorf("%w: workLocationGeofenceName exceeds 255 characters", ErrValidation)
	}
	if p.ReportRecipientEmails != nil {
		for _, addr := range *p.ReportRecipientEmails {
			if _, err := mail.ParseAddress(addr); err != nil {
				return fmt.Errorf("%w: invalid recipient email %q", ErrValidation, addr)
			}
		}
	}
	if p.ReportSubjectTemplate != nil && utf8.RuneCountInString(*p.ReportSubjectTemplate) > 500 {
		return fmt.Errorf("%w: reportSubjectTemplate exceeds 500 characters", ErrValidation)
	}
	if p.ReportFooter != nil && utf8.RuneCountInString(*p.ReportFooter) > 2000 {
		return fmt.Errorf("%w: reportFooter exceeds 2000 characters", ErrValidation)
	}
	return nil
}

// Apply copies the set fields of p onto s.
func (s *Settings) Apply(p SettingsPatch, now time.Time) {
	s.StandardDailyMinutes = IntFromPtrWithDefault(s.StandardDailyMinutes, p.StandardDailyMinutes)
	s.AllowNegativeTil = BoolFromPtrWithDefault(s.AllowNegativeTil, p.AllowNegativeTil)
	if p.RoundingRule != nil {
		s.RoundingRule = *p.RoundingRule
	}
	if p.OvertimeStartsAfterMinutes != nil {
		s.OvertimeStartsAfterMinutes = *p.OvertimeStartsAfterMinutes
	}
	if p.WorkLocationGeofenceName != nil {
		s.WorkLocationGeofenceName = *p.WorkLocationGeofenceName
	}
	if p.ReportRecipientEmails != nil {
		s.ReportRecipientEmails = append([]string{}, (*p.ReportRecipientEmails)...)
	}
	if p.ReportSubjectTemplate != nil {
		s.ReportSubjectTemplate = *p.ReportSubjectTemplate
	}
	if p.ReportFooter != nil {
		s.ReportFooter = *p.ReportFooter
	}
	s.UpdatedAt = now
}
