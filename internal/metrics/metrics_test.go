package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/toil/internal/service"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()
	a.ObserveRequest("GET", "/health", 200, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.RequestsTotal.WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RequestsTotal.WithLabelValues("GET", "/health", "200")))
}

func TestObserveUseCase_ClockOutcomes(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.ObserveUseCase(ctx, service.UseCaseEvent{Name: "clock-in", Success: true, Fields: map[string]any{"already_clocked_in": false}})
	m.ObserveUseCase(ctx, service.UseCaseEvent{Name: "clock-in", Success: true, Fields: map[string]any{"already_clocked_in": true}})
	m.ObserveUseCase(ctx, service.UseCaseEvent{Name: "clock-out", Success: false, Err: errors.New("none open")})
	m.ObserveUseCase(ctx, service.UseCaseEvent{Name: "summary", Success: true, Duration: 3 * time.Millisecond})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClockEventsTotal.WithLabelValues("clock-in", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClockEventsTotal.WithLabelValues("clock-in", "already_clocked_in")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClockEventsTotal.WithLabelValues("clock-out", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UseCaseErrors.WithLabelValues("clock-out")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.ClockEventsTotal))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveRequest("POST", "/api/sessions/clock-in", 201, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(text, `toil_http_requests_total{method="POST",route="/api/sessions/clock-in",status="201"} 1`))
	assert.Contains(t, text, "toil_http_request_duration_seconds_bucket")
	assert.Contains(t, text, "go_goroutines")
}
