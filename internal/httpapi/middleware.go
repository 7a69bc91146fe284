package httpapi

import (
	"context"
	"crypto/subtle"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/toil/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// ContextKeyAPIKey marks a request authenticated by X-API-KEY.
const ContextKeyAPIKey contextKey = "api_key_authenticated"

// APIKeyHeader carries the shared secret on /api routes.
const APIKeyHeader = "X-API-KEY"

// viaAPIKey reports whether the request was authenticated by API key.
func viaAPIKey(ctx context.Context) bool {
	ok, _ := ctx.Value(ContextKeyAPIKey).(bool)
	return ok
}

// APIKeyMiddleware rejects requests without the configured key. An empty key
// disables the check.
func APIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			provided := r.Header.Get(APIKeyHeader)
			if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				RespondError(w, http.StatusUnauthorized, "Unauthorized", "Valid X-API-KEY header is required")
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyAPIKey, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CORSMiddleware answers preflight requests and sets the allow headers.
func CORSMiddleware(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, X-API-KEY")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoggingMiddleware logs one line per request.
func LoggingMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Str("request_id", middleware.GetReqID(r.Context())).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("HTTP request")
		})
	}
}

// MetricsMiddleware records request counts and latency by route pattern.
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.ObserveRequest(r.Method, route, status, time.Since(start))
		})
	}
}

// RateLimiter implements a fixed-window token bucket per client.
type RateLimiter struct {
	requests  map[string]*bucket
	mu        sync.Mutex
	rate      int           // requests per window
	window    time.Duration // time window
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	tokens    int
	lastReset time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(requestsPerWindow int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string]*bucket),
		rate:     requestsPerWindow,
		window:   window,
		now:      time.Now,
	}
}

// Allow takes a token for identifier and returns the tokens left.
func (rl *RateLimiter) Allow(identifier string) (remaining int, ok bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	b, exists := rl.requests[identifier]
	if !exists || now.Sub(b.lastReset) > rl.window {
		rl.requests[identifier] = &bucket{tokens: rl.rate - 1, lastReset: now}
		return rl.rate - 1, true
	}
	if b.tokens > 0 {
		b.tokens--
		return b.tokens, true
	}
	return 0, false
}

// sweep drops idle buckets at most once per two windows. Callers hold mu.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window*2 {
		return
	}
	rl.lastSweep = now
	for id, b := range rl.requests {
		if now.Sub(b.lastReset) > rl.window*2 {
			delete(rl.requests, id)
		}
	}
}

// RateLimitMiddleware limits requests per client IP.
func RateLimitMiddleware(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remaining, ok := limiter.Allow(clientIP(r))
			w.Header().Set("RateLimit-Limit", strconv.Itoa(limiter.rate))
			w.Header().Set("RateLimit-Remaining", strconv.Itoa(remaining))
			if !ok {
				RespondError(w, http.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded. Please try again in a minute.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr, which middleware.RealIP may
// already have replaced with a bare address.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
