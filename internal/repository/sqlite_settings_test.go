package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/toil/internal/domain"
	"github.com/alexanderramin/toil/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRepo_Get_NotFoundBeforeFirstUpsert(t *testing.T) {
	repo := NewSQLiteSettingsRepo(testutil.NewTestDB(t))

	_, err := repo.Get(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSettingsRepo_UpsertAndGet(t *testing.T) {
	repo := NewSQLiteSettingsRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	overtime := 30
	geofence := "Head office"
	s := testutil.NewTestSettings(
		testutil.WithStandardMinutes(480),
		testutil.WithRounding(domain.RoundNearest15),
		testutil.WithNegativeTil(),
		testutil.WithRecipients("boss@example.com", "hr@example.com"),
		testutil.WithReportFooter("Thanks"),
	)
	s.OvertimeStartsAfterMinutes = &overtime
	s.WorkLocationGeofenceName = &geofence
	require.NoError(t, repo.Upsert(ctx, s))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SettingsID, got.ID)
	assert.Equal(t, 480, got.StandardDailyMinutes)
	assert.Equal(t, domain.RoundNearest15, got.RoundingRule)
	assert.True(t, got.AllowNegativeTil)
	require.NotNil(t, got.OvertimeStartsAfterMinutes)
	assert.Equal(t, 30, *got.OvertimeStartsAfterMinutes)
	require.NotNil(t, got.WorkLocationGeofenceName)
	assert.Equal(t, "Head office", *got.WorkLocationGeofenceName)
	assert.Equal(t, []string{"boss@example.com", "hr@example.com"}, got.ReportRecipientEmails)
	assert.Equal(t, domain.DefaultReportSubjectTemplate, got.ReportSubjectTemplate)
	assert.Equal(t, "Thanks", got.ReportFooter)
}

func TestSettingsRepo_UpsertOverwritesButKeepsCreatedAt(t *testing.T) {
	repo := NewSQLiteSettingsRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	first := domain.DefaultSettings(testutil.MustTime("2024-01-01T00:00:00Z"))
	require.NoError(t, repo.Upsert(ctx, first))

	second := domain.DefaultSettings(testutil.MustTime("2024-02-01T00:00:00Z"))
	second.StandardDailyMinutes = 300
	second.ReportRecipientEmails = nil
	require.NoError(t, repo.Upsert(ctx, second))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300, got.StandardDailyMinutes)
	assert.NotNil(t, got.ReportRecipientEmails)
	assert.Empty(t, got.ReportRecipientEmails)
	assert.True(t, testutil.MustTime("2024-01-01T00:00:00Z").Equal(got.CreatedAt))
	assert.True(t, testutil.MustTime("2024-02-01T00:00:00Z").Equal(got.UpdatedAt))
}

func TestSettingsRepo_ClearsNullableFields(t *testing.T) {
	repo := NewSQLiteSettingsRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	overtime := 10
	s := domain.DefaultSettings(time.Now())
	s.OvertimeStartsAfterMinutes = &overtime
	require.NoError(t, repo.Upsert(ctx, s))

	s.OvertimeStartsAfterMinutes = nil
	require.NoError(t, repo.Upsert(ctx, s))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got.OvertimeStartsAfterMinutes)
	assert.Nil(t, got.WorkLocationGeofenceName)
}

func TestSettingsRepo_UnknownRoundingRuleStillLoads(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteSettingsRepo(database)

	_, err := database.Exec(`INSERT INTO settings (id, rounding_rule, created_at, updated_at)
		VALUES ('singleton', 'NEAREST_30', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RoundingRule("NEAREST_30"), got.RoundingRule)
}
