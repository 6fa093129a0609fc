package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zizouhuweidi/trivia/internal/logger"
)

type countingAllower struct {
	limit int
	seen  map[string]int
	err   error
}

func (a *countingAllower) Allow(ctx context.Context, key string) (bool, error) {
	if a.err != nil {
		return false, a.err
	}
	a.seen[key]++
	return a.seen[key] <= a.limit, nil
}

func newEcho(a Allower) *echo.Echo {
	e := echo.New()
	e.Use(Middleware(a, logger.Nop()))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return e
}

func serve(e *echo.Echo, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ip + ":1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	e := newEcho(&countingAllower{limit: 2, seen: map[string]int{}})

	assert.Equal(t, http.StatusOK, serve(e, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, serve(e, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, serve(e, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, serve(e, "10.0.0.2"))
}

func TestMiddlewareFailsOpen(t *testing.T) {
	e := newEcho(&countingAllower{err: errors.New("connection refused")})

	assert.Equal(t, http.StatusOK, serve(e, "10.0.0.1"))
}

func newRedisLimiter(t *testing.T, limit int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewLimiter(client, limit, window), mr
}

func TestLimiterAllowsUpToLimitPerWindow(t *testing.T) {
	limiter, mr := newRedisLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}
	allowed, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)

	mr.FastForward(time.Minute)

	allowed, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestLimiterKeepsWindowRunning(t *testing.T) {
	limiter, mr := newRedisLimiter(t, 10, time.Minute)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+"10.0.0.1"))

	mr.FastForward(20 * time.Second)
	_, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 40*time.Second, mr.TTL(keyPrefix+"10.0.0.1"))
}

func TestLimiterExpiresKeyWithoutTTL(t *testing.T) {
	limiter, mr := newRedisLimiter(t, 2, time.Minute)
	ctx := context.Background()
	require.NoError(t, mr.Set(keyPrefix+"10.0.0.1", "5"))

	allowed, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+"10.0.0.1"))

	mr.FastForward(time.Minute)

	allowed, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestLimiterReportsRedisFailure(t *testing.T) {
	limiter, mr := newRedisLimiter(t, 2, time.Minute)
	mr.Close()

	allowed, err := limiter.Allow(context.Background(), "10.0.0.1")
	assert.Error(t, err)
	assert.False(t, allowed)
}
