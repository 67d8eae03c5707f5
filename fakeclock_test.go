package pool

import (
	"sync"
	"time"
)

// fakeClock is a manually-advanced Clock for deterministic maintainer,
// reaper and backoff tests, grounded on Chartly2.0's Clock/systemClock
// test-double pattern.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) NewTimer(d time.Duration) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{c: c, fireAt: c.now.Add(d), ch: make(chan time.Time, 1)}
	c.timers = append(c.timers, t)
	return t
}

// pendingTimers reports how many live (unfired, unstopped) timers are
// currently registered, so a test can wait for an async afterFunc to
// register its timer before advancing the clock past it.
func (c *fakeClock) pendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d and fires any timer whose fireAt
// has been reached.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	var live []*fakeTimer
	for _, t := range c.timers {
		if t.stopped {
			continue
		}
		if !now.Before(t.fireAt) {
			select {
			case t.ch <- now:
			default:
			}
			continue
		}
		live = append(live, t)
	}
	c.timers = live
	c.mu.Unlock()
}

type fakeTimer struct {
	c       *fakeClock
	fireAt  time.Time
	ch      chan time.Time
	stopped bool
}

func (t *fakeTimer) C() <-chan time.Time { return t.ch }

func (t *fakeTimer) Reset(d time.Duration) bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	wasActive := !t.stopped
	t.stopped = false
	t.fireAt = t.c.now.Add(d)
	t.c.timers = append(t.c.timers, t)
	return wasActive
}

func (t *fakeTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}
