package utils

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/time/rate"
)

// Throttle spaces out sequential requests to the same site. Each Wait blocks
// for at least min, plus a random jitter up to max.
type Throttle struct {
	limiter *rate.Limiter
	min     time.Duration
	max     time.Duration
	rnd     *rand.Rand
}

// NewThrottle creates a Throttle. A zero min disables waiting entirely.
func NewThrottle(min, max time.Duration) *Throttle {
	if max < min {
		max = min
	}
	t := &Throttle{
		min: min,
		max: max,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if min > 0 {
		t.limiter = rate.NewLimiter(rate.Every(min), 1)
	}
	return t
}

// Wait blocks until the next request may be sent or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil || t.limiter == nil {
		return nil
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	jitter := t.max - t.min
	if jitter <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(t.rnd.Int63n(int64(jitter)))):
		return nil
	}
}
