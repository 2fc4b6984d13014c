package resilience

import (
	"context"
	"time"
)

// Backoff computes exponential retry delays: Base, Base*Factor, Base*Factor^2, ...
type Backoff struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64
}

func DefaultBackoff() Backoff {
	return Backoff{
		Base:   500 * time.Millisecond,
		Max:    8 * time.Second,
		Factor: 2,
	}
}

// Delay returns the wait before retry number attempt (0-based).
func (b Backoff) Delay(attempt int) time.Duration {
	if b.Base <= 0 {
		return 0
	}
	factor := b.Factor
	if factor < 1 {
		factor = 2
	}
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(b.Base)
	for i := 0; i < attempt; i++ {
		delay *= factor
		if b.Max > 0 && delay >= float64(b.Max) {
			return b.Max
		}
	}

	return time.Duration(delay)
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
