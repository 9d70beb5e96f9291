package ratelimit

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const (
	DefaultBurst  = 3
	DefaultPeriod = time.Second
)

// Limiter is a blocking token bucket. It holds at most burst tokens and
// refills one token every period.
type Limiter struct {
	limiter *rate.Limiter
	burst   int
	period  time.Duration
}

func New(burst int, period time.Duration) (*Limiter, error) {
	if burst < 1 {
		return nil, errors.Errorf("invalid rate limit burst: %d", burst)
	}
	if period <= 0 {
		return nil, errors.Errorf("invalid rate limit period: %s", period)
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Every(period), burst),
		burst:   burst,
		period:  period,
	}, nil
}

// Block waits until a token is available and consumes it.
func (l *Limiter) Block() {
	r := l.limiter.Reserve()
	// burst is at least 1, so a single token reservation is always ok
	if d := r.Delay(); d > 0 {
		time.Sleep(d)
	}
}

// Wait is like Block but gives up when ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

func (l *Limiter) Burst() int {
	return l.burst
}

func (l *Limiter) Period() time.Duration {
	return l.period
}
