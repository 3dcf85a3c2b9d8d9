package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/Novip1906/tasks-notify/internal/config"
	"github.com/Novip1906/tasks-notify/internal/metrics"
	"github.com/Novip1906/tasks-notify/pkg/logging"
	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// Limiter is satisfied by *redis_rate.Limiter.
type Limiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

type RateLimiter struct {
	limiter Limiter
	limit   redis_rate.Limit
	closer  func() error
}

func NewRateLimiter(limiter Limiter, rateLimiterCfg config.RateLimiter) *RateLimiter {
	burst := rateLimiterCfg.Burst
	if burst < rateLimiterCfg.RPS {
		burst = rateLimiterCfg.RPS
	}

	return &RateLimiter{
		limiter: limiter,
		limit: redis_rate.Limit{
			Rate:   rateLimiterCfg.RPS,
			Burst:  burst,
			Period: time.Second,
		},
		closer: func() error { return nil },
	}
}

// NewRedisRateLimiter connects to redis and fails when it cannot be pinged.
func NewRedisRateLimiter(ctx context.Context, log *slog.Logger, redisCfg config.Redis, rateLimiterCfg config.RateLimiter) (*RateLimiter, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Address,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("cannot connect to redis: %w", err)
	}
	log.Info("Connected to Redis successfully")

	rl := NewRateLimiter(redis_rate.NewLimiter(rdb), rateLimiterCfg)
	rl.closer = rdb.Close
	return rl, nil
}

func (rl *RateLimiter) Close() error {
	return rl.closer()
}

// Middleware limits requests per client IP. Limiter errors let the request
// through.
func (rl *RateLimiter) Middleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			key := fmt.Sprintf("rate_limit:%s", ip)

			res, err := rl.limiter.Allow(ctx, key, rl.limit)
			if err != nil {
				log.Error("redis rate limiter error", logging.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit.Rate))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(res.ResetAfter.Seconds())))

			if res.Allowed == 0 {
				metrics.RateLimitHits.WithLabelValues(r.Method).Inc()
				log.Warn("rate limit exceeded (redis)",
					slog.String("ip", ip),
					slog.Int("remaining", res.Remaining),
				)
				w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
