package resilience

import (
	"context"
	"sync"
	"time"
)

// Pacer hands out request slots at least interval apart, in arrival order.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
	now      func() time.Time
}

func NewPacer(interval time.Duration) *Pacer {
	if interval < 0 {
		interval = 0
	}
	return &Pacer{
		interval: interval,
		now:      time.Now,
	}
}

// Wait blocks until the caller's slot is due. The slot is reserved before waiting,
// so a caller that is cancelled still consumes it and later callers keep their
// spacing.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.interval == 0 {
		return ctx.Err()
	}

	p.mu.Lock()
	now := p.now()
	slot := p.next
	if slot.Before(now) {
		slot = now
	}
	p.next = slot.Add(p.interval)
	p.mu.Unlock()

	return Sleep(ctx, slot.Sub(now))
}
