package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/paperforge/internal/model"
)

// Decision is the outcome of one rate-limit check
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter counts hits per key inside a fixed window
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Settings configures a window limiter
type Settings struct {
	MaxRequests int
	Window      time.Duration
}

func (s Settings) normalized() Settings {
	if s.MaxRequests <= 0 {
		s.MaxRequests = 20
	}
	if s.Window <= 0 {
		s.Window = 60 * time.Second
	}
	return s
}

// New builds the limiter named by cfg.Backend ("memory" or "redis")
func New(ctx context.Context, cfg model.RateLimitConfig) (Limiter, error) {
	settings := Settings{MaxRequests: cfg.MaxRequests, Window: cfg.Window}

	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		return NewMemoryLimiter(settings), nil
	case "redis":
		return NewRedisLimiter(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Prefix:   cfg.RedisPrefix,
			Settings: settings,
		})
	default:
		return nil, fmt.Errorf("unknown rate limit backend: %s (supported: memory, redis)", cfg.Backend)
	}
}
