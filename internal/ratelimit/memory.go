package ratelimit

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter keeps per-key windows in process memory. Entries expire
// together with their window, so idle keys do not accumulate.
type MemoryLimiter struct {
	settings Settings
	windows  *gocache.Cache
	mu       sync.Mutex
	now      func() time.Time
}

// NewMemoryLimiter creates an in-process limiter
func NewMemoryLimiter(settings Settings) *MemoryLimiter {
	settings = settings.normalized()
	return &MemoryLimiter{
		settings: settings,
		windows:  gocache.New(settings.Window, 2*settings.Window),
		now:      time.Now,
	}
}

// WithClock replaces the time source
func (l *MemoryLimiter) WithClock(now func() time.Time) *MemoryLimiter {
	l.now = now
	return l
}

// Allow records a hit for key. A hit after the window's reset time opens
// a fresh window with a count of one.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	var w *window
	if v, ok := l.windows.Get(key); ok {
		w = v.(*window)
	}

	if w == nil || now.After(w.resetAt) {
		w = &window{count: 1, resetAt: now.Add(l.settings.Window)}
		l.windows.Set(key, w, gocache.DefaultExpiration)
		return l.decision(w, true), nil
	}

	if w.count >= l.settings.MaxRequests {
		return l.decision(w, false), nil
	}

	w.count++
	return l.decision(w, true), nil
}

// Len reports the number of tracked keys
func (l *MemoryLimiter) Len() int {
	return l.windows.ItemCount()
}

func (l *MemoryLimiter) decision(w *window, allowed bool) Decision {
	remaining := l.settings.MaxRequests - w.count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   allowed,
		Limit:     l.settings.MaxRequests,
		Remaining: remaining,
		ResetAt:   w.resetAt,
	}
}
