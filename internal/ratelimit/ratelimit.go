package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces outbound platform calls so the bot stays under the
// platform's request quotas.
type Limiter interface {
	Wait(ctx context.Context) error
	Allow() bool
}

// APILimiter is a token-bucket Limiter shared by all platform calls.
type APILimiter struct {
	limiter *rate.Limiter
}

// New creates a limiter allowing `requests` calls per `per`, with the
// given burst size.
// Example: New(1, time.Second, 3) -> 1 call/second, burst of 3.
func New(requests int, per time.Duration, burst int) *APILimiter {
	return &APILimiter{
		limiter: rate.NewLimiter(rate.Every(per/time.Duration(requests)), burst),
	}
}

var _ Limiter = (*APILimiter)(nil)

// Wait blocks until a call is permitted or ctx is done.
func (l *APILimiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether a call is permitted right now.
func (l *APILimiter) Allow() bool {
	return l.limiter.Allow()
}
