package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/paperforge/internal/model"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMemoryLimiter_Window(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewMemoryLimiter(Settings{MaxRequests: 20, Window: time.Minute}).WithClock(clock.now)

	t.Run("twenty allowed then rejected", func(t *testing.T) {
		for i := 1; i <= 20; i++ {
			d, err := limiter.Allow(ctx, "1.2.3.4")
			require.NoError(t, err)
			require.Truef(t, d.Allowed, "request %d should pass", i)
			assert.Equal(t, 20-i, d.Remaining)
		}

		d, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, 0, d.Remaining)
		assert.Equal(t, clock.t.Add(time.Minute), d.ResetAt)
	})

	t.Run("other keys are independent", func(t *testing.T) {
		d, err := limiter.Allow(ctx, "unknown")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	})

	t.Run("at reset time the window still holds", func(t *testing.T) {
		clock.advance(time.Minute)
		d, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.False(t, d.Allowed)
	})

	t.Run("after reset a fresh window starts at one", func(t *testing.T) {
		clock.advance(time.Millisecond)
		d, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 19, d.Remaining)
	})
}

func TestMemoryLimiter_Defaults(t *testing.T) {
	limiter := NewMemoryLimiter(Settings{})
	assert.Equal(t, 20, limiter.settings.MaxRequests)
	assert.Equal(t, 60*time.Second, limiter.settings.Window)
	assert.Equal(t, 0, limiter.Len())

	_, err := limiter.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, 1, limiter.Len())
}

func TestNew(t *testing.T) {
	l, err := New(context.Background(), model.RateLimitConfig{Backend: "memory", MaxRequests: 3, Window: time.Second})
	require.NoError(t, err)
	assert.IsType(t, &MemoryLimiter{}, l)

	_, err = New(context.Background(), model.RateLimitConfig{Backend: "etcd"})
	assert.Error(t, err)

	_, err = New(context.Background(), model.RateLimitConfig{Backend: "redis"})
	assert.Error(t, err, "redis backend without an address must fail")
}

// Runs only against a real Redis, e.g. PAPERFORGE_TEST_REDIS_ADDR=localhost:6379
func TestRedisLimiter(t *testing.T) {
	addr := os.Getenv("PAPERFORGE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PAPERFORGE_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	limiter, err := NewRedisLimiter(ctx, RedisOptions{
		Addr:     addr,
		Prefix:   "paperforge:test:" + uuid.NewString() + ":",
		Settings: Settings{MaxRequests: 2, Window: 500 * time.Millisecond},
	})
	require.NoError(t, err)
	defer func() { _ = limiter.Close() }()

	for i := 0; i < 2; i++ {
		d, err := limiter.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}

	d, err := limiter.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	time.Sleep(600 * time.Millisecond)
	d, err = limiter.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)
}
