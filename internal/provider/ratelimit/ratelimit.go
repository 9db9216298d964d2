package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MinInterval enforces a minimum time between requests. Each Wait reserves
// the next free slot, so concurrent callers are spaced Interval apart. A
// canceled caller returns early; its slot is not handed back.
type MinInterval struct {
	Interval time.Duration

	mu   sync.Mutex
	last time.Time
}

// Wait blocks until the caller's slot comes up or ctx is canceled.
func (m *MinInterval) Wait(ctx context.Context) error {
	if m.Interval <= 0 {
		return ctx.Err()
	}
	m.mu.Lock()
	now := time.Now()
	slot := m.last.Add(m.Interval)
	if slot.Before(now) {
		slot = now
	}
	m.last = slot
	m.mu.Unlock()

	wait := time.Until(slot)
	if wait <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
