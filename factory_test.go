package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCommissionCreateAppliesBackoffBeforeReleasingSlot(t *testing.T) {
	clock := newFakeClock(time.Now())
	var creates int64

	factory := Factory[int]{
		Create: func(ctx context.Context) (int, error) {
			atomic.AddInt64(&creates, 1)
			return 0, errors.New("boom")
		},
		Destroy: func(ctx context.Context, v int) {},
		Backoff: func() time.Duration { return time.Second },
	}
	p := New(factory, WithClock(clock), WithMax(1))
	baselineTimers := clock.pendingTimers()

	p.mu.Lock()
	p.commissionCreate()
	p.mu.Unlock()

	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.reg.creatingCount == 1
	}, time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		return clock.pendingTimers() > baselineTimers
	}, time.Second, time.Millisecond, "backoff timer should have been registered")

	clock.Advance(2 * time.Second)

	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.reg.creatingCount == 0
	}, time.Second, time.Millisecond)
}

func TestDefaultCompareUsesPointerIdentityForPointerTypes(t *testing.T) {
	type widget struct{ n int }
	a := &widget{1}
	b := &widget{1}
	require.True(t, defaultCompare(a, a))
	require.False(t, defaultCompare(a, b))
}

func TestDefaultCompareUsesDeepEqualForValueTypes(t *testing.T) {
	type point struct{ x, y int }
	require.True(t, defaultCompare(point{1, 2}, point{1, 2}))
	require.False(t, defaultCompare(point{1, 2}, point{1, 3}))
}

func TestRequestCompleteIsExactlyOnce(t *testing.T) {
	req := newRequest[int](time.Now(), time.Time{}, "")
	require.True(t, req.complete(1, nil))
	require.False(t, req.complete(2, nil))

	res := <-req.completion
	require.Equal(t, 1, res.value)
}
