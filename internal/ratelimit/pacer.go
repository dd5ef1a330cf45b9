package ratelimit

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Pacer spaces outbound requests per host so a long batch stays under a
// server's window budget
type Pacer struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewPacer creates a pacer allowing requestsPerMinute per host
func NewPacer(requestsPerMinute float64, burst int) *Pacer {
	if burst <= 0 {
		burst = 1
	}

	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Limit(requestsPerMinute / 60)
	}

	return &Pacer{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until a request to rawURL may be sent
func (p *Pacer) Wait(ctx context.Context, rawURL string) error {
	host, err := hostOf(rawURL)
	if err != nil {
		return err
	}
	return p.limiter(host).Wait(ctx)
}

// Allow reports whether a request may be sent now without waiting
func (p *Pacer) Allow(rawURL string) bool {
	host, err := hostOf(rawURL)
	if err != nil {
		return false
	}
	return p.limiter(host).Allow()
}

func (p *Pacer) limiter(host string) *rate.Limiter {
	p.mu.RLock()
	limiter, exists := p.limiters[host]
	p.mu.RUnlock()

	if exists {
		return limiter
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if limiter, exists := p.limiters[host]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(p.defaultRate, p.defaultBurst)
	p.limiters[host] = limiter
	return limiter
}

func hostOf(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return parsed.Host, nil
}
