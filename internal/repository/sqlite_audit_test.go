package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alexanderramin/toil/internal/domain"
	"github.com/alexanderramin/toil/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepo_AppendAndListRecent(t *testing.T) {
	repo := NewSQLiteAuditRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	base := testutil.MustTime("2024-01-15T00:00:00Z")

	types := []domain.AuditEventType{domain.AuditClockIn, domain.AuditClockOut, domain.AuditEditSession}
	for i, et := range types {
		payload, err := json.Marshal(map[string]any{"sessionId": "s1", "seq": i})
		require.NoError(t, err)
		require.NoError(t, repo.Append(ctx, &domain.AuditEvent{
			ID:        uuid.New().String(),
			EventType: et,
			Payload:   payload,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	events, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.AuditEditSession, events[0].EventType)
	assert.Equal(t, domain.AuditClockOut, events[1].EventType)
	assert.JSONEq(t, `{"sessionId":"s1","seq":2}`, string(events[0].Payload))
}

func TestAuditRepo_EmptyPayloadStoredAsObject(t *testing.T) {
	repo := NewSQLiteAuditRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, &domain.AuditEvent{
		ID:        "a1",
		EventType: domain.AuditDeleteSession,
		CreatedAt: time.Now(),
	}))

	events, err := repo.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.JSONEq(t, `{}`, string(events[0].Payload))
}

func TestAuditRepo_RejectsUnknownEventType(t *testing.T) {
	repo := NewSQLiteAuditRepo(testutil.NewTestDB(t))

	err := repo.Append(context.Background(), &domain.AuditEvent{
		ID:        "a1",
		EventType: domain.AuditEventType("SOMETHING"),
		CreatedAt: time.Now(),
	})
	assert.Error(t, err)
}
