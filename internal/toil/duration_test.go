package toil

import (
	"testing"
	"time"

	"github.com/alexanderramin/toil/internal/domain"
	"github.com/stretchr/testify/assert"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parsing %q: %v", s, err)
	}
	return ts
}

func timePtr(t time.Time) *time.Time { return &t }

func TestBreakMinutes_Empty(t *testing.T) {
	assert.Equal(t, 0, BreakMinutes(nil))
	assert.Equal(t, 0, BreakMinutes([]domain.Break{}))
}

func TestBreakMinutes_Single(t *testing.T) {
	breaks := []domain.Break{{
		StartedAt: mustTime(t, "2024-01-15T01:00:00Z"),
		EndedAt:   mustTime(t, "2024-01-15T01:30:00Z"),
	}}
	assert.Equal(t, 30, BreakMinutes(breaks))
}

func TestBreakMinutes_Multiple(t *testing.T) {
	breaks := []domain.Break{
		{StartedAt: mustTime(t, "2024-01-15T01:00:00Z"), EndedAt: mustTime(t, "2024-01-15T01:15:00Z")},
		{StartedAt: mustTime(t, "2024-01-15T03:00:00Z"), EndedAt: mustTime(t, "2024-01-15T03:45:00Z")},
	}
	assert.Equal(t, 60, BreakMinutes(breaks))
}

func TestBreakMinutes_NegativeContributesZero(t *testing.T) {
	breaks := []domain.Break{
		{StartedAt: mustTime(t, "2024-01-15T02:00:00Z"), EndedAt: mustTime(t, "2024-01-15T01:00:00Z")},
		{StartedAt: mustTime(t, "2024-01-15T03:00:00Z"), EndedAt: mustTime(t, "2024-01-15T03:10:00Z")},
	}
	assert.Equal(t, 10, BreakMinutes(breaks))
}

func TestBreakMinutes_TruncatesPartialMinutes(t *testing.T) {
	breaks := []domain.Break{{
		StartedAt: mustTime(t, "2024-01-15T01:00:00Z"),
		EndedAt:   mustTime(t, "2024-01-15T01:05:59Z"),
	}}
	assert.Equal(t, 5, BreakMinutes(breaks))
}

func TestSessionMinutes_OpenSession(t *testing.T) {
	s := domain.Session{StartedAt: time.Now()}
	assert.Equal(t, 0, SessionMinutes(s))
}

func TestSessionMinutes_NoBreaks(t *testing.T) {
	s := domain.Session{
		StartedAt: mustTime(t, "2024-01-15T00:00:00Z"),
		EndedAt:   timePtr(mustTime(t, "2024-01-15T08:00:00Z")),
	}
	assert.Equal(t, 480, SessionMinutes(s))
}

func TestSessionMinutes_WithBreak(t *testing.T) {
	s := domain.Session{
		StartedAt: mustTime(t, "2024-01-15T00:00:00Z"),
		EndedAt:   timePtr(mustTime(t, "2024-01-15T08:00:00Z")),
		Breaks: []domain.Break{{
			StartedAt: mustTime(t, "2024-01-15T04:00:00Z"),
			EndedAt:   mustTime(t, "2024-01-15T04:30:00Z"),
		}},
	}
	assert.Equal(t, 450, SessionMinutes(s))
}

func TestSessionMinutes_EndBeforeStart(t *testing.T) {
	s := domain.Session{
		StartedAt: mustTime(t, "2024-01-15T08:00:00Z"),
		EndedAt:   timePtr(mustTime(t, "2024-01-15T07:00:00Z")),
	}
	assert.Equal(t, 0, SessionMinutes(s))
}

func TestSessionMinutes_BreaksLongerThanSessionFloorAtZero(t *testing.T) {
	s := domain.Session{
		StartedAt: mustTime(t, "2024-01-15T00:00:00Z"),
		EndedAt:   timePtr(mustTime(t, "2024-01-15T01:00:00Z")),
		Breaks: []domain.Break{
			{StartedAt: mustTime(t, "2024-01-15T00:00:00Z"), EndedAt: mustTime(t, "2024-01-15T00:50:00Z")},
			{StartedAt: mustTime(t, "2024-01-15T00:10:00Z"), EndedAt: mustTime(t, "2024-01-15T00:55:00Z")},
		},
	}
	assert.Equal(t, 0, SessionMinutes(s))
}
