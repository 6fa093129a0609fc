// Package ratelimit bounds requests per client in fixed windows kept in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// Allower decides whether a client may make another request
type Allower interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Limiter is a fixed-window counter per key
type Limiter struct {
	redis  redis.Cmdable
	limit  int
	window time.Duration
}

// NewLimiter creates a limiter admitting limit requests per window
func NewLimiter(client redis.Cmdable, limit int, window time.Duration) *Limiter {
	return &Limiter{
		redis:  client,
		limit:  limit,
		window: window,
	}
}

// Allow counts a request for key and reports whether it is within the limit.
// The counter and its window TTL are written in one transaction; NX keeps an
// existing window running and gives any key without a TTL a fresh one.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	key = keyPrefix + key

	var incr *redis.IntCmd
	_, err := l.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to count request: %w", err)
	}

	return incr.Val() <= int64(l.limit), nil
}

// Middleware rejects clients over the limit with 429. Limiter faults let the
// request through.
func Middleware(limiter Allower, log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			allowed, err := limiter.Allow(c.Request().Context(), ip)
			if err != nil {
				log.WarnContext(c.Request().Context(), "rate limiter unavailable",
					slog.String("ip", ip),
					slog.String("error", err.Error()),
				)
				return next(c)
			}
			if !allowed {
				return echo.NewHTTPError(http.StatusTooManyRequests).SetInternal(
					fmt.Errorf("rate limit exceeded for %s", ip))
			}
			return next(c)
		}
	}
}
