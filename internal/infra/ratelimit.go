package infra

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter caps outbound requests per second.
type RateLimiter struct {
	lim *rate.Limiter
}

// NewRateLimiter allows perSecond requests per second with bursts of the
// same size. A non-positive perSecond means unlimited.
func NewRateLimiter(perSecond float64) *RateLimiter {
	if perSecond <= 0 {
		return &RateLimiter{lim: rate.NewLimiter(rate.Inf, 0)}
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{lim: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Wait blocks until a request may proceed or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.lim.Wait(ctx)
}
