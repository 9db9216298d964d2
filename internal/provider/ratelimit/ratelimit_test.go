package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenBucket_BurstThenBlocks(t *testing.T) {
	t.Parallel()

	// Arrange: one request per minute, burst of one.
	tb := PerMinute(1, 1)

	// Act: the first token is available immediately.
	require.NoError(t, tb.Wait(t.Context()))

	// Assert: the second one cannot arrive before the deadline.
	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, tb.Wait(ctx), context.DeadlineExceeded)
}

func TestMinInterval_SpacesRequests(t *testing.T) {
	t.Parallel()

	m := &MinInterval{Interval: 30 * time.Millisecond}

	start := time.Now()
	for range 3 {
		require.NoError(t, m.Wait(t.Context()))
	}
	require.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestMinInterval_ConcurrentCallersGetDistinctSlots(t *testing.T) {
	t.Parallel()

	m := &MinInterval{Interval: 25 * time.Millisecond}

	var (
		mu    sync.Mutex
		times []time.Time
		wg    sync.WaitGroup
	)
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.Wait(t.Context()) == nil {
				mu.Lock()
				times = append(times, time.Now())
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, times, 3)
	first, last := times[0], times[0]
	for _, ts := range times {
		if ts.Before(first) {
			first = ts
		}
		if ts.After(last) {
			last = ts
		}
	}
	require.GreaterOrEqual(t, last.Sub(first), 40*time.Millisecond)
}

func TestMinInterval_CanceledWhileWaiting(t *testing.T) {
	t.Parallel()

	m := &MinInterval{Interval: time.Hour}
	require.NoError(t, m.Wait(t.Context()))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	require.ErrorIs(t, m.Wait(ctx), context.Canceled)
}

func TestMinInterval_WaitersDoNotBlockEachOther(t *testing.T) {
	t.Parallel()

	// Arrange: the first slot is taken, a second caller is parked on the next
	// one an hour away.
	m := &MinInterval{Interval: time.Hour}
	require.NoError(t, m.Wait(t.Context()))

	parked, release := context.WithCancel(t.Context())
	defer release()
	done := make(chan error, 1)
	go func() { done <- m.Wait(parked) }()

	// Act: a third caller with a short deadline.
	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := m.Wait(ctx)

	// Assert: it gives up on its own deadline, not the parked caller's.
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 500*time.Millisecond)
	release()
	require.ErrorIs(t, <-done, context.Canceled)
}
