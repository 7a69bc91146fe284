package cli

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/alexanderramin/toil/internal/domain"
	"github.com/charmbracelet/huh"
)

// settingsFormValues holds the editable settings as form strings.
type settingsFormValues struct {
	StandardMinutes string
	Rounding        domain.RoundingRule
	AllowNegative   bool
	OvertimeAfter   string
	Geofence        string
	Recipients      string
	Subject         string
	Footer          string
}

func newSettingsFormValues(s *domain.Settings) *settingsFormValues {
	v := &settingsFormValues{
		StandardMinutes: strconv.Itoa(s.StandardDailyMinutes),
		Rounding:        s.RoundingRule,
		AllowNegative:   s.AllowNegativeTil,
		Recipients:      strings.Join(s.ReportRecipientEmails, ", "),
		Subject:         s.ReportSubjectTemplate,
		Footer:          s.ReportFooter,
	}
	if s.OvertimeStartsAfterMinutes != nil {
		v.OvertimeAfter = strconv.Itoa(*s.OvertimeStartsAfterMinutes)
	}
	if s.WorkLocationGeofenceName != nil {
		v.Geofence = *s.WorkLocationGeofenceName
	}
	return v
}

// patch turns the submitted form into a full settings patch. Blank optional
// fields clear the stored value.
func (v *settingsFormValues) patch() (domain.SettingsPatch, error) {
	if err := validateMinutesInDay(v.StandardMinutes); err != nil {
		return domain.SettingsPatch{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := validateNonNegativeInt(v.OvertimeAfter); err != nil {
		return domain.SettingsPatch{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	standard, _ := strconv.Atoi(strings.TrimSpace(v.StandardMinutes))
	rounding := v.Rounding
	allow := v.AllowNegative
	recipients := splitList(v.Recipients)
	subject := v.Subject
	footer := v.Footer

	var overtime *int
	if s := strings.TrimSpace(v.OvertimeAfter); s != "" {
		n, _ := strconv.Atoi(s)
		overtime = &n
	}
	var geofence *string
	if s := strings.TrimSpace(v.Geofence); s != "" {
		geofence = &s
	}

	p := domain.SettingsPatch{
		StandardDailyMinutes:       &standard,
		RoundingRule:               &rounding,
		AllowNegativeTil:           &allow,
		OvertimeStartsAfterMinutes: &overtime,
		WorkLocationGeofenceName:   &geofence,
		ReportRecipientEmails:      &recipients,
		ReportSubjectTemplate:      &subject,
		ReportFooter:               &footer,
	}
	return p, p.Validate()
}

// roundingSelect returns a huh.Select over the accepted rounding rules.
func roundingSelect(value *domain.RoundingRule) *huh.Select[domain.RoundingRule] {
	options := make([]huh.Option[domain.RoundingRule], 0, len(domain.ValidRoundingRules))
	for _, r := range domain.ValidRoundingRules {
		options = append(options, huh.NewOption(string(r), r))
	}
	return huh.NewSelect[domain.RoundingRule]().
		Title("Rounding").
		Description("Applied to each daily total before TOIL is computed").
		Options(options...).
		Value(value)
}

// validateRecipients accepts a comma separated list of email addresses.
func validateRecipients(s string) error {
	for _, addr := range splitList(s) {
		if _, err := mail.ParseAddress(addr); err != nil {
			return err
		}
	}
	return nil
}

// settingsForm returns a themed two-page form over every settings field.
func settingsForm(v *settingsFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Standard day (minutes)").
				Placeholder(strconv.Itoa(domain.DefaultStandardDailyMinutes)).
				Value(&v.StandardMinutes).
				Validate(validateMinutesInDay),
			roundingSelect(&v.Rounding),
			huh.NewConfirm().
				Title("Allow negative TOIL?").
				Affirmative("Yes").
				Negative("No").
				Value(&v.AllowNegative),
			huh.NewInput().
				Title("Overtime starts after (minutes, blank for none)").
				Value(&v.OvertimeAfter).
				Validate(validateNonNegativeInt),
			huh.NewInput().
				Title("Work location geofence").
				Value(&v.Geofence),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Report recipients (comma separated)").
				Value(&v.Recipients).
				Validate(validateRecipients),
			huh.NewInput().
				Title("Report subject").
				Description("{from} and {to} are replaced with the report dates").
				Value(&v.Subject),
			huh.NewText().
				Title("Report footer").
				Value(&v.Footer),
		),
	).WithTheme(toilHuhTheme()).WithShowHelp(false)
}
