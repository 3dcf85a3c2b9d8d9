package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Novip1906/tasks-notify/internal/config"
	"github.com/Novip1906/tasks-notify/internal/contextkeys"
	"github.com/Novip1906/tasks-notify/pkg/logging"
	"github.com/go-redis/redis_rate/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLimiter struct {
	allowed int
	err     error
	keys    []string
	limit   redis_rate.Limit
}

func (f *fakeLimiter) Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	f.keys = append(f.keys, key)
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return &redis_rate.Result{Limit: limit, Allowed: f.allowed, Remaining: f.allowed, RetryAfter: time.Second, ResetAfter: time.Second}, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter(t *testing.T) {
	tests := []struct {
		name       string
		limiter    *fakeLimiter
		wantStatus int
	}{
		{"allowed", &fakeLimiter{allowed: 1}, http.StatusOK},
		{"exceeded", &fakeLimiter{allowed: 0}, http.StatusTooManyRequests},
		{"redis down fails open", &fakeLimiter{err: errors.New("dial tcp: refused")}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(tt.limiter, config.RateLimiter{RPS: 5, Burst: 10})
			h := rl.Middleware(logging.Discard())(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			req.RemoteAddr = "10.0.0.7:51234"
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			require.Equal(t, []string{"rate_limit:10.0.0.7"}, tt.limiter.keys)
			assert.Equal(t, redis_rate.Limit{Rate: 5, Burst: 10, Period: time.Second}, tt.limiter.limit)
		})
	}
}

func TestRateLimiterBurstAtLeastRate(t *testing.T) {
	rl := NewRateLimiter(&fakeLimiter{}, config.RateLimiter{RPS: 8, Burst: 2})
	assert.Equal(t, 8, rl.limit.Burst)
	assert.NoError(t, rl.Close())
}

func TestLoggingMiddlewareRequestID(t *testing.T) {
	var seen string
	h := LoggingMiddleware(logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = contextkeys.GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", seen)
}
