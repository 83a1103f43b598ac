// Package ratelimit bounds how fast we call keyed upstream APIs.
package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter with the upstream's name for error messages.
// A nil *Limiter never blocks, so clients can disable limiting in tests.
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// New creates a limiter allowing perSecond requests with the given burst.
// A burst below 1 defaults to one request.
func New(name string, perSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		name:    name,
	}
}

// Wait blocks until the limiter allows a request or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", l.name, err)
	}
	return nil
}

// Name returns the upstream this limiter guards.
func (l *Limiter) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}
