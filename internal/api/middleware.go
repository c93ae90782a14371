// internal/api/middleware.go
package api

import (
	"context"
	"errors"
	"math"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/codr1/dugout/internal/db"
	"github.com/codr1/dugout/internal/metrics"
	"github.com/codr1/dugout/internal/ratelimit"
	"github.com/codr1/dugout/internal/request"
)

type Middleware func(http.Handler) http.Handler

type requestIDKey struct{}

// ChainMiddleware wraps h so that the last middleware listed runs first.
func ChainMiddleware(h http.Handler, middleware ...Middleware) http.Handler {
	for _, m := range middleware {
		h = m(h)
	}
	return h
}

// RequestID returns the id assigned by WithRequestID.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := wrapResponseWriter(w)

		next.ServeHTTP(wrapped, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", r.Pattern).
			Int("status", wrapped.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", RequestID(r.Context())).
			Msg("Request completed")
	})
}

// WithMetrics records request counts and latency by route pattern. It must
// sit inside the mux-facing end of the chain so r.Pattern is populated.
func WithMetrics(rec *metrics.Recorder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			rec.ObserveRequest(route, wrapped.Status(), time.Since(start))
		})
	}
}

func WithRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger := log.Ctx(r.Context())
				stack := debug.Stack()
				logger.Error().
					Interface("error", err).
					Str("stack", string(stack)).
					Msg("Panic recovered")

				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()

		logger := log.With().Str("request_id", requestID).Logger()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		ctx = logger.WithContext(ctx)

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithRateLimit rejects clients that have drained their token bucket.
func WithRateLimit(limiter *ratelimit.Limiter, trustProxy bool, rec *metrics.Recorder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			ip := ratelimit.GetClientIP(r, trustProxy)
			allowed, retryAfter := limiter.Allow(ip)
			if !allowed {
				rec.RateLimited()
				log.Ctx(r.Context()).Warn().
					Str("event", "rate_limit_exceeded").
					Str("ip", ip).
					Dur("retry_after", retryAfter).
					Msg("Client rate limit exceeded")

				seconds := int(math.Ceil(retryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithLeague resolves the {league_id} path segment, which may be a numeric
// id or a slug, and adds the league to the request context. It wraps
// individual routes so the path wildcards are already matched.
func WithLeague(queries *db.Queries) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := log.Ctx(r.Context())

			ref := r.PathValue("league_id")
			if ref == "" {
				http.Error(w, "League not specified", http.StatusNotFound)
				return
			}

			// Timeout only applies to the lookup, not downstream handlers.
			queryCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			var (
				league db.League
				err    error
			)
			if id, ok := request.ParseID(ref); ok {
				league, err = queries.GetLeague(queryCtx, id)
			} else {
				league, err = queries.GetLeagueBySlug(queryCtx, ref)
			}
			if err != nil {
				if errors.Is(err, db.ErrNotFound) {
					logger.Warn().Str("league", ref).Msg("League not found")
					http.Error(w, "League not found", http.StatusNotFound)
					return
				}
				logger.Error().Err(err).Str("league", ref).Msg("Failed to look up league")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			logger.Debug().Int64("league_id", league.ID).Str("league_slug", league.Slug).Msg("League resolved")
			next.ServeHTTP(w, r.WithContext(request.ContextWithLeague(r.Context(), league)))
		})
	}
}

// responseWriter wrapper to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w}
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.status == 0 {
		rw.status = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}

// Status reports the written status, defaulting to 200 for handlers that
// never call WriteHeader.
func (rw *responseWriter) Status() int {
	if rw.status == 0 {
		return http.StatusOK
	}
	return rw.status
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
