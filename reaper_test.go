package pool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newInertFactory() Factory[int] {
	return Factory[int]{
		Create:  func(ctx context.Context) (int, error) { return 0, nil },
		Destroy: func(ctx context.Context, v int) {},
	}
}

func TestReapIdleLockedDestroysResourcesPastIdleTimeout(t *testing.T) {
	clock := newFakeClock(time.Now())
	var destroyed []int
	factory := newInertFactory()
	factory.Destroy = func(ctx context.Context, v int) { destroyed = append(destroyed, v) }

	p := New(factory, WithClock(clock), WithMax(10),
		WithIdleTimeout(time.Second), WithIdleCheckInterval(time.Millisecond))

	p.mu.Lock()
	old := newResourceRecord[int]()
	old.value = 1
	old.markFree(clock.Now().Add(-2 * time.Second))
	fresh := newResourceRecord[int]()
	fresh.value = 2
	fresh.markFree(clock.Now())
	p.reg.pushFree(old)
	p.reg.pushFree(fresh)
	p.lastIdleCheckAt = clock.Now().Add(-time.Hour)
	now := clock.Now()
	var sink eventSink
	p.reapIdleLocked(now, &sink)
	p.mu.Unlock()

	require.Len(t, p.reg.free, 1)
	require.Equal(t, 2, p.reg.free[0].value)
}

func TestReapExpiredLockedDestroysResourcesPastExpiry(t *testing.T) {
	clock := newFakeClock(time.Now())
	factory := newInertFactory()

	p := New(factory, WithClock(clock), WithMax(10),
		WithExpireTimeout(time.Second), WithExpireCheckInterval(time.Millisecond))

	p.mu.Lock()
	expired := newResourceRecord[int]()
	expired.value = 1
	expired.expiresAt = clock.Now().Add(-time.Millisecond)
	expired.markFree(clock.Now())
	live := newResourceRecord[int]()
	live.value = 2
	live.expiresAt = clock.Now().Add(time.Hour)
	live.markFree(clock.Now())
	p.reg.pushFree(expired)
	p.reg.pushFree(live)
	p.lastExpireCheckAt = clock.Now().Add(-time.Hour)
	now := clock.Now()
	var sink eventSink
	p.reapExpiredLocked(now, &sink)
	p.mu.Unlock()

	require.Len(t, p.reg.free, 1)
	require.Equal(t, 2, p.reg.free[0].value)
}

func TestReapIdleLockedSkipsBeforeCheckIntervalElapses(t *testing.T) {
	clock := newFakeClock(time.Now())
	factory := newInertFactory()

	p := New(factory, WithClock(clock), WithMax(10),
		WithIdleTimeout(time.Second), WithIdleCheckInterval(time.Hour))

	p.mu.Lock()
	old := newResourceRecord[int]()
	old.value = 1
	old.markFree(clock.Now().Add(-2 * time.Second))
	p.reg.pushFree(old)
	p.lastIdleCheckAt = clock.Now()
	now := clock.Now().Add(time.Millisecond)
	var sink eventSink
	p.reapIdleLocked(now, &sink)
	p.mu.Unlock()

	require.Len(t, p.reg.free, 1)
}
