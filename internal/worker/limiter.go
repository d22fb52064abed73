package worker

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles oracle requests with a single token bucket shared
// by every worker, keeping concurrent block inference inside the
// provider's rate limit.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a limiter allowing requestsPerSecond with the
// given burst. A non-positive rate disables throttling.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if requestsPerSecond <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Wait blocks until a request may proceed or the context is done
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether a request may proceed without waiting
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}
