package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/toil/internal/contract"
	"github.com/alexanderramin/toil/internal/domain"
	"github.com/alexanderramin/toil/internal/metrics"
	"github.com/alexanderramin/toil/internal/repository"
	"github.com/alexanderramin/toil/internal/service"
	"github.com/alexanderramin/toil/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	handler  http.Handler
	sessions repository.SessionRepo
	metrics  *metrics.Metrics
	now      time.Time
}

func newTestAPI(t *testing.T, opts Options) *testAPI {
	t.Helper()
	database := testutil.NewTestDB(t)
	now := testutil.MustTime("2024-01-15T02:00:00Z")
	loc, err := time.LoadLocation("Australia/Perth")
	require.NoError(t, err)

	svcOpts := service.Options{Location: loc, Now: testutil.FixedClock(now)}
	uow := testutil.NewTestUoW(database)
	sessions := repository.NewSQLiteSessionRepo(database)
	settings := service.NewSettingsService(uow, svcOpts)
	summary := service.NewSummaryService(sessions, settings, svcOpts)

	m := metrics.New()
	opts.Metrics = m
	opts.Logger = zerolog.Nop()
	opts.Now = testutil.FixedClock(now)

	handler := NewRouter(Services{
		Sessions: service.NewSessionService(sessions, uow, svcOpts, m),
		Settings: settings,
		Summary:  summary,
		Reports:  service.NewReportService(summary, svcOpts),
	}, opts)
	return &testAPI{handler: handler, sessions: sessions, metrics: m, now: now}
}

func (a *testAPI) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, Options{APIKey: "secret"})

	rec := api.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "2024-01-15T02:00:00Z", body["timestamp"])
}

func TestClockInAndOut(t *testing.T) {
	api := newTestAPI(t, Options{})

	rec := api.do(t, http.MethodPost, "/api/sessions/clock-in", `{"locationLabel":"Office","idempotencyKey":"k1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["alreadyClockedIn"])
	session := body["session"].(map[string]any)
	assert.Equal(t, "MANUAL", session["source"])
	assert.Equal(t, "Office", session["locationLabel"])
	assert.Nil(t, session["endedAt"])
	assert.Equal(t, []any{}, session["breaks"])

	rec = api.do(t, http.MethodPost, "/api/sessions/clock-in", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["alreadyClockedIn"])

	rec = api.do(t, http.MethodGet, "/api/sessions/current", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session["id"], decodeBody(t, rec)["session"].(map[string]any)["id"])

	rec = api.do(t, http.MethodPost, "/api/sessions/clock-out", `{"endedAt":"2024-01-15T10:00:00+08:00"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	closed := decodeBody(t, rec)["session"].(map[string]any)
	assert.Equal(t, "2024-01-15T02:00:00Z", closed["endedAt"])

	rec = api.do(t, http.MethodPost, "/api/sessions/clock-out", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "No open session found. Please clock in before clocking out.", decodeBody(t, rec)["message"])
}

func TestAPIKey(t *testing.T) {
	api := newTestAPI(t, Options{APIKey: "secret"})

	rec := api.do(t, http.MethodPost, "/api/sessions/clock-in", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, map[string]any{"error": "Unauthorized", "message": "Valid X-API-KEY header is required"}, decodeBody(t, rec))

	rec = api.do(t, http.MethodPost, "/api/sessions/clock-in", "", APIKeyHeader, "wrong")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/sessions/clock-in", "", APIKeyHeader, "secret")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "SHORTCUT", decodeBody(t, rec)["session"].(map[string]any)["source"])
}

func TestCreateSession(t *testing.T) {
	api := newTestAPI(t, Options{})

	body := `{"startedAt":"2024-01-14T08:00:00+08:00","endedAt":"2024-01-14T17:00:00+08:00",
		"breaks":[{"startedAt":"2024-01-14T12:00:00+08:00","endedAt":"2024-01-14T12:30:00+08:00"}]}`
	rec := api.do(t, http.MethodPost, "/api/sessions", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decodeBody(t, rec)
	assert.NotContains(t, first, "warning")
	assert.Len(t, first["session"].(map[string]any)["breaks"], 1)

	rec = api.do(t, http.MethodPost, "/api/sessions", `{"startedAt":"2024-01-14T16:00:00+08:00","endedAt":"2024-01-14T18:00:00+08:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decodeBody(t, rec)
	assert.Equal(t, contract.OverlapWarning, second["warning"])
	assert.Equal(t, first["session"].(map[string]any)["id"], second["overlappingSessionId"])
}

func TestCreateSession_Validation(t *testing.T) {
	api := newTestAPI(t, Options{})

	for name, body := range map[string]string{
		"missing start": `{"endedAt":"2024-01-14T17:00:00+08:00"}`,
		"bad json":      `{"startedAt":`,
		"bad time":      `{"startedAt":"yesterday"}`,
		"latitude":      `{"startedAt":"2024-01-14T08:00:00+08:00","latitude":95}`,
		"break":         `{"startedAt":"2024-01-14T08:00:00+08:00","breaks":[{"startedAt":"2024-01-14T12:00:00+08:00"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/api/sessions", body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, "Validation Error", decodeBody(t, rec)["error"])
		})
	}
}

func TestUpdateAndDeleteSession(t *testing.T) {
	api := newTestAPI(t, Options{})
	ctx := context.Background()

	existing := testutil.NewTestSession(testutil.MustTime("2024-01-14T00:00:00Z"), 8*time.Hour, testutil.WithNotes("old"))
	require.NoError(t, api.sessions.Create(ctx, existing))

	rec := api.do(t, http.MethodPatch, "/api/sessions/"+existing.ID, `{"notes":null,"endedAt":"2024-01-14T10:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody(t, rec)["session"].(map[string]any)
	assert.Equal(t, "EDITED", updated["source"])
	assert.Nil(t, updated["notes"])
	assert.Equal(t, "2024-01-14T10:00:00Z", updated["endedAt"])

	rec = api.do(t, http.MethodPatch, "/api/sessions/"+existing.ID, `{"startedAt":null}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPatch, "/api/sessions/missing", `{}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Session not found", decodeBody(t, rec)["message"])

	rec = api.do(t, http.MethodGet, "/api/sessions/"+existing.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodDelete, "/api/sessions/"+existing.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = api.do(t, http.MethodDelete, "/api/sessions/"+existing.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSessions(t *testing.T) {
	api := newTestAPI(t, Options{})
	ctx := context.Background()

	require.NoError(t, api.sessions.Create(ctx, testutil.NewTestSession(testutil.MustTime("2024-01-14T00:00:00Z"), time.Hour)))
	require.NoError(t, api.sessions.Create(ctx, testutil.NewTestSession(testutil.MustTime("2024-01-10T00:00:00Z"), time.Hour)))

	rec := api.do(t, http.MethodGet, "/api/sessions?from=2024-01-12&to=2024-01-15", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["sessions"], 1)

	rec = api.do(t, http.MethodGet, "/api/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["sessions"], 2)

	rec = api.do(t, http.MethodGet, "/api/sessions?from=14/01/2024", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryAndReport(t *testing.T) {
	api := newTestAPI(t, Options{})
	ctx := context.Background()

	require.NoError(t, api.sessions.Create(ctx, testutil.NewTestSession(testutil.MustTime("2024-01-15T00:00:00Z"), 9*time.Hour)))

	rec := api.do(t, http.MethodGet, "/api/summary?from=2024-01-15&to=2024-01-15", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sum := decodeBody(t, rec)
	assert.Equal(t, "Australia/Perth", sum["timezone"])
	assert.Equal(t, 540.0, sum["totalWorkedMinutes"])
	assert.Equal(t, 84.0, sum["totalTilMinutes"])
	days := sum["days"].([]any)
	require.Len(t, days, 1)
	assert.Equal(t, "2024-01-15", days[0].(map[string]any)["date"])

	rec = api.do(t, http.MethodGet, "/api/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-01-02", decodeBody(t, rec)["from"])

	rec = api.do(t, http.MethodGet, "/api/report?from=2024-01-15&to=2024-01-15&format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="toil-report-2024-01-15-2024-01-15.csv"`, rec.Header().Get("Content-Disposition"))

	rec = api.do(t, http.MethodGet, "/api/report?from=2024-01-15&to=2024-01-15", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "TOIL TRACKER REPORT"))
	assert.Empty(t, rec.Header().Get("Content-Disposition"))

	rec = api.do(t, http.MethodGet, "/api/report?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettings(t *testing.T) {
	api := newTestAPI(t, Options{})

	rec := api.do(t, http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody(t, rec)
	assert.Equal(t, 456.0, got["standardDailyMinutes"])
	assert.Equal(t, "NONE", got["roundingRule"])
	assert.Equal(t, []any{}, got["reportRecipientEmails"])

	rec = api.do(t, http.MethodPut, "/api/settings", `{"standardDailyMinutes":480,"roundingRule":"NEAREST_15","reportRecipientEmails":["a@example.com"],"overtimeStartsAfterMinutes":null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got = decodeBody(t, rec)
	assert.Equal(t, 480.0, got["standardDailyMinutes"])
	assert.Equal(t, "NEAREST_15", got["roundingRule"])
	assert.Equal(t, []any{"a@example.com"}, got["reportRecipientEmails"])

	rec = api.do(t, http.MethodPut, "/api/settings", `{"standardDailyMinutes":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownAPIRoute(t *testing.T) {
	api := newTestAPI(t, Options{})

	rec := api.do(t, http.MethodGet, "/api/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"error": "Not Found", "message": "Route not found"}, decodeBody(t, rec))
}

func TestRateLimit(t *testing.T) {
	api := newTestAPI(t, Options{RateLimit: 2, RateLimitWindow: time.Hour})

	for i := 0; i < 2; i++ {
		rec := api.do(t, http.MethodGet, "/api/settings", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := api.do(t, http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too Many Requests", decodeBody(t, rec)["error"])
	assert.Equal(t, "0", rec.Header().Get("RateLimit-Remaining"))

	rec = api.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code, "health is not rate limited")
}

func TestCORSPreflight(t *testing.T) {
	api := newTestAPI(t, Options{CORSOrigin: "https://app.example.com"})

	rec := api.do(t, http.MethodOptions, "/api/sessions", "", "Origin", "https://app.example.com", "Access-Control-Request-Method", "POST")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Equal(t, "Content-Type, X-API-KEY", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t, Options{})

	api.do(t, http.MethodPost, "/api/sessions/clock-in", "")
	rec := api.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	text := rec.Body.String()
	assert.Contains(t, text, `toil_http_requests_total{method="POST",route="/api/sessions/clock-in",status="201"} 1`)
	assert.Contains(t, text, `toil_clock_events_total{event="clock-in",outcome="ok"} 1`)
}

type failingSessions struct {
	service.SessionService
}

func (failingSessions) List(context.Context, contract.ListSessionsRequest) ([]*domain.Session, error) {
	return nil, errors.New("disk on fire")
}

func TestInternalErrors(t *testing.T) {
	for _, production := range []bool{false, true} {
		var logs bytes.Buffer
		handler := NewRouter(Services{Sessions: failingSessions{}}, Options{
			Production: production,
			Logger:     zerolog.New(&logs),
		})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "Internal Server Error", body["error"])
		if production {
			assert.Equal(t, "Internal Server Error", body["message"])
		} else {
			assert.Equal(t, "disk on fire", body["message"])
		}
		assert.Contains(t, logs.String(), "disk on fire")
	}
}
