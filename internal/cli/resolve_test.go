package cli

import (
	"testing"
	"time"

	"github.com/alexanderramin/toil/internal/domain"
	"github.com/alexanderramin/toil/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWhen(t *testing.T) {
	loc, err := time.LoadLocation("Australia/Perth")
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare clock time is today local", "08:30", "2024-01-15T00:30:00Z"},
		{"local date and time", "2024-01-14 17:00", "2024-01-14T09:00:00Z"},
		{"local T separator", "2024-01-14T17:00", "2024-01-14T09:00:00Z"},
		{"rfc3339 keeps its offset", "2024-01-14T17:00:00+02:00", "2024-01-14T15:00:00Z"},
		{"surrounding space", "  07:15 ", "2024-01-14T23:15:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseWhen(tt.input, testNow, loc)
			require.NoError(t, err)
			assert.Equal(t, testutil.MustTime(tt.want), got)
		})
	}
}

func TestParseWhen_Invalid(t *testing.T) {
	for _, input := range []string{"", "25:00", "yesterday", "2024-13-01 08:00"} {
		_, err := parseWhen(input, testNow, time.UTC)
		assert.ErrorIs(t, err, domain.ErrValidation, input)
	}
}

func TestParseOptionalWhen_Empty(t *testing.T) {
	got, err := parseOptionalWhen("", testNow, time.UTC)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseBreak(t *testing.T) {
	b, err := parseBreak("12:00/12:45", testNow, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, testutil.MustTime("2024-01-15T12:00:00Z"), b.StartedAt)
	assert.Equal(t, testutil.MustTime("2024-01-15T12:45:00Z"), b.EndedAt)

	_, err = parseBreak("12:00-12:45", testNow, time.UTC)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = parseBreak("12:00/later", testNow, time.UTC)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAnchorBreaksUsesSessionDate(t *testing.T) {
	loc, err := time.LoadLocation("Australia/Perth")
	require.NoError(t, err)
	start := testutil.MustTime("2024-01-10T00:00:00Z")

	breaks, err := anchorBreaks([]string{"12:00/12:30", "15:00/15:10"}, start, loc)
	require.NoError(t, err)
	require.Len(t, breaks, 2)
	assert.Equal(t, testutil.MustTime("2024-01-10T04:00:00Z"), breaks[0].StartedAt)
	assert.Equal(t, testutil.MustTime("2024-01-10T07:10:00Z"), breaks[1].EndedAt)

	empty, err := anchorBreaks(nil, start, loc)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestSettingsFormValues_RoundTrip(t *testing.T) {
	s := testutil.NewTestSettings(
		testutil.WithStandardMinutes(480),
		testutil.WithRounding(domain.RoundNearest10),
		testutil.WithRecipients("a@example.com", "b@example.com"),
	)
	v := newSettingsFormValues(s)
	assert.Equal(t, "480", v.StandardMinutes)
	assert.Equal(t, "a@example.com, b@example.com", v.Recipients)
	assert.Empty(t, v.OvertimeAfter)

	v.OvertimeAfter = " 45 "
	v.Geofence = "HQ"
	p, err := v.patch()
	require.NoError(t, err)
	assert.Equal(t, 480, *p.StandardDailyMinutes)
	assert.Equal(t, domain.RoundNearest10, *p.RoundingRule)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, *p.ReportRecipientEmails)
	require.NotNil(t, *p.OvertimeStartsAfterMinutes)
	assert.Equal(t, 45, **p.OvertimeStartsAfterMinutes)
	assert.Equal(t, "HQ", **p.WorkLocationGeofenceName)
}

func TestSettingsFormValues_BlankOptionalFieldsClear(t *testing.T) {
	over := 30
	name := "HQ"
	s := testutil.NewTestSettings()
	s.OvertimeStartsAfterMinutes = &over
	s.WorkLocationGeofenceName = &name

	v := newSettingsFormValues(s)
	v.OvertimeAfter = ""
	v.Geofence = "  "
	p, err := v.patch()
	require.NoError(t, err)
	require.NotNil(t, p.OvertimeStartsAfterMinutes)
	assert.Nil(t, *p.OvertimeStartsAfterMinutes)
	require.NotNil(t, p.WorkLocationGeofenceName)
	assert.Nil(t, *p.WorkLocationGeofenceName)
}

func TestSettingsFormValues_Invalid(t *testing.T) {
	v := newSettingsFormValues(testutil.NewTestSettings())

	v.StandardMinutes = "2000"
	_, err := v.patch()
	assert.ErrorIs(t, err, domain.ErrValidation)

	v.StandardMinutes = "480"
	v.OvertimeAfter = "-5"
	_, err = v.patch()
	assert.ErrorIs(t, err, domain.ErrValidation)

	v.OvertimeAfter = ""
	v.Recipients = "nobody"
	_, err = v.patch()
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFormValidators(t *testing.T) {
	assert.NoError(t, validateMinutesInDay("456"))
	assert.Error(t, validateMinutesInDay(""))
	assert.Error(t, validateMinutesInDay("0"))
	assert.NoError(t, validateNonNegativeInt(""))
	assert.NoError(t, validateNonNegativeInt("0"))
	assert.Error(t, validateNonNegativeInt("x"))
	assert.NoError(t, validateRecipients("a@example.com, b@example.com"))
	assert.Error(t, validateRecipients("a@example.com, nope"))
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
}

func TestSettingsFormBuilds(t *testing.T) {
	v := newSettingsFormValues(testutil.NewTestSettings())
	assert.NotNil(t, settingsForm(v))
	assert.NotNil(t, toilHuhTheme())
}
