package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderramin/toil/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported on /metrics. Each instance owns its
// registry so servers and tests never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Clock metrics
	ClockEventsTotal *prometheus.CounterVec

	// Use case metrics
	UseCaseDuration *prometheus.HistogramVec
	UseCaseErrors   *prometheus.CounterVec
}

// New creates and registers every collector, plus the Go and process
// collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toil_http_requests_total",
				Help: "Total number of HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toil_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ClockEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toil_clock_events_total",
				Help: "Clock-in and clock-out outcomes",
			},
			[]string{"event", "outcome"},
		),
		UseCaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toil_use_case_duration_seconds",
				Help:    "Service use case duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"use_case"},
		),
		UseCaseErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toil_use_case_errors_total",
				Help: "Service use cases that returned an error",
			},
			[]string{"use_case"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestsTotal,
		m.RequestDuration,
		m.ClockEventsTotal,
		m.UseCaseDuration,
		m.UseCaseErrors,
	)
	return m
}

// Registry exposes the underlying registry for gathering in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one finished HTTP request. route is the matched
// pattern, not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveUseCase implements service.UseCaseObserver.
func (m *Metrics) ObserveUseCase(_ context.Context, event service.UseCaseEvent) {
	m.UseCaseDuration.WithLabelValues(event.Name).Observe(event.Duration.Seconds())
	if !event.Success {
		m.UseCaseErrors.WithLabelValues(event.Name).Inc()
	}

	switch event.Name {
	case "clock-in", "clock-out":
		m.ClockEventsTotal.WithLabelValues(event.Name, clockOutcome(event)).Inc()
	}
}

func clockOutcome(event service.UseCaseEvent) string {
	switch {
	case !event.Success:
		return "error"
	case event.Fields["already_clocked_in"] == true:
		return "already_clocked_in"
	default:
		return "ok"
	}
}

var _ service.UseCaseObserver = (*Metrics)(nil)
