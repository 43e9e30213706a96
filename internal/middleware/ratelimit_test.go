package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("allows requests under limit", func(t *testing.T) {
		limiter := NewMemoryRateLimiter()

		for i := 0; i < 5; i++ {
			allowed, remaining, _ := limiter.Check(ctx, "ip-1", 10)
			assert.True(t, allowed)
			assert.Equal(t, 10-i-1, remaining)
		}
	})

	t.Run("blocks requests over limit", func(t *testing.T) {
		limiter := NewMemoryRateLimiter()

		for i := 0; i < 5; i++ {
			limiter.Check(ctx, "ip-2", 5)
		}

		allowed, remaining, _ := limiter.Check(ctx, "ip-2", 5)
		assert.False(t, allowed)
		assert.Equal(t, 0, remaining)
	})

	t.Run("tracks keys separately", func(t *testing.T) {
		limiter := NewMemoryRateLimiter()

		for i := 0; i < 5; i++ {
			limiter.Check(ctx, "ip-a", 5)
		}

		allowed, _, _ := limiter.Check(ctx, "ip-b", 5)
		assert.True(t, allowed)
	})

	t.Run("window slides", func(t *testing.T) {
		limiter := NewMemoryRateLimiter()
		now := time.Unix(1_700_000_000, 0)
		limiter.now = func() time.Time { return now }

		for i := 0; i < 3; i++ {
			limiter.Check(ctx, "ip-3", 3)
		}
		allowed, _, resetAt := limiter.Check(ctx, "ip-3", 3)
		assert.False(t, allowed)
		assert.Equal(t, now.Add(windowDuration).Unix(), resetAt)

		now = now.Add(windowDuration + time.Second)
		allowed, _, _ = limiter.Check(ctx, "ip-3", 3)
		assert.True(t, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	newRequest := func(ip string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/vouchers/redeem", nil)
		req.RemoteAddr = ip + ":52000"
		return req
	}

	t.Run("sets rate limit headers", func(t *testing.T) {
		handler := NewRateLimitMiddleware(NewMemoryRateLimiter(), 10, "redeem").Handler(okHandler())

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("10.0.0.1"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "9", rec.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
	})

	t.Run("returns 429 rate_limited when exceeded", func(t *testing.T) {
		handler := NewRateLimitMiddleware(NewMemoryRateLimiter(), 2, "redeem").Handler(okHandler())

		for i := 0; i < 2; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newRequest("10.0.0.2"))
			require.Equal(t, http.StatusOK, rec.Code)
		}

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("10.0.0.2"))

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.JSONEq(t, `{"ok":false,"error":"rate_limited"}`, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("10.0.0.3"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("scopes do not share counters", func(t *testing.T) {
		limiter := NewMemoryRateLimiter()
		redeem := NewRateLimitMiddleware(limiter, 1, "redeem").Handler(okHandler())
		setPin := NewRateLimitMiddleware(limiter, 1, "set-pin").Handler(okHandler())

		rec := httptest.NewRecorder()
		redeem.ServeHTTP(rec, newRequest("10.0.0.4"))
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		setPin.ServeHTTP(rec, newRequest("10.0.0.4"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("zero limit disables", func(t *testing.T) {
		handler := NewRateLimitMiddleware(NewMemoryRateLimiter(), 0, "redeem").Handler(okHandler())

		for i := 0; i < 20; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newRequest("10.0.0.5"))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

func TestRedisRateLimiter(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}
	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	defer client.Close()
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	ctx := context.Background()
	limiter := NewRedisRateLimiter(client)
	key := "test:" + uuid.NewString()

	for i := 0; i < 3; i++ {
		allowed, remaining, _ := limiter.Check(ctx, key, 3)
		assert.True(t, allowed)
		assert.Equal(t, 3-i-1, remaining)
	}

	allowed, _, _ := limiter.Check(ctx, key, 3)
	assert.False(t, allowed)
}

func TestRedisRateLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	allowed, _, _ := NewRedisRateLimiter(client).Check(context.Background(), "k", 1)
	assert.True(t, allowed)
}
