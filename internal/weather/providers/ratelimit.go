package providers

import (
	"golang.org/x/time/rate"
)

// Limiter caps the outbound request rate of a provider. A request over the
// limit fails fast with weather.ErrRateLimited instead of waiting.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter allows rps requests per second with a burst of burst. A
// non-positive rps disables limiting.
func NewLimiter(rps float64, burst int) *Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Allow reports whether a request may go out now. A nil Limiter always
// allows.
func (l *Limiter) Allow() bool {
	if l == nil {
		return true
	}
	return l.limiter.Allow()
}
