package httpapi

import (
	"net/http"
	"time"

	"github.com/alexanderramin/toil/internal/metrics"
	"github.com/alexanderramin/toil/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Services are the use cases the API exposes.
type Services struct {
	Sessions service.SessionService
	Settings service.SettingsService
	Summary  service.SummaryService
	Reports  service.ReportService
}

// Options configures the router's guards. Zero rate limit values fall back
// to 100 requests per minute.
type Options struct {
	APIKey          string
	CORSOrigin      string
	RateLimit       int
	RateLimitWindow time.Duration
	Production      bool
	Metrics         *metrics.Metrics
	Logger          zerolog.Logger
	Now             func() time.Time
}

// NewRouter wires HTTP routes to the services.
func NewRouter(svcs Services, opts Options) http.Handler {
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = "*"
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 100
	}
	if opts.RateLimitWindow <= 0 {
		opts.RateLimitWindow = time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger.With().Str("component", "http").Logger()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(CORSMiddleware(opts.CORSOrigin))
	if opts.Metrics != nil {
		r.Use(MetricsMiddleware(opts.Metrics))
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		RespondJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": opts.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	h := &Handler{
		sessions: svcs.Sessions,
		settings: svcs.Settings,
		summary:  svcs.Summary,
		reports:  svcs.Reports,
		errs:     errorResponder{logger: logger, production: opts.Production},
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(RateLimitMiddleware(NewRateLimiter(opts.RateLimit, opts.RateLimitWindow)))
		api.Use(APIKeyMiddleware(opts.APIKey))

		h.RegisterRoutes(api)

		api.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			RespondError(w, http.StatusNotFound, "Not Found", "Route not found")
		})
	})

	return r
}
