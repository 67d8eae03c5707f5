// Package pool implements a general-purpose, bounded resource pool: a
// coordination engine binding a deadline-aware request queue, a resource
// registry spanning creating/free/lent/destroying states, a
// backoff-controlled factory driver, an idle/expiry reaper and a
// two-phase drain controller behind a single mutex.
//
// It is the generalization of github.com/posidoni/resource-pool's
// Pool[T]: the same "generic pool behind a mutex, constructor launches a
// background maintainer" shape, extended with priority queueing,
// resource lifetimes, creation backoff and graceful drain.
package pool

import (
	"context"
	"sync"
	"time"
)

// Pool manages a bounded population of type-T resources obtained from a
// caller-supplied Factory. It is unsafe to copy a Pool; always pass by
// pointer, exactly as the teacher's doc comment warns.
type Pool[T any] struct {
	mu sync.Mutex

	cfg     Config
	factory Factory[T]

	queue requestQueue[T]
	reg   registry[T]

	draining             bool
	maintaining          bool
	maintenanceScheduled bool
	drainEventEmitted    bool

	lastIdleCheckAt   time.Time
	lastExpireCheckAt time.Time
}

// New constructs a Pool for the given Factory and starts its periodic
// maintainer. factory.Create and factory.Destroy must be supplied;
// Validate, Compare and Backoff are optional and default per spec
// section 4.3.
func New[T any](factory Factory[T], opts ...Option) *Pool[T] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.resolveDefaults()

	now := cfg.clock.Now()
	p := &Pool[T]{
		cfg:               cfg,
		factory:           factory,
		lastIdleCheckAt:   now,
		lastExpireCheckAt: now,
	}

	p.schedulePeriodicTick()
	p.requestMaintenance()
	return p
}

// afterFunc runs fn once, after d, on its own goroutine, using the
// pool's Clock so tests can control time deterministically.
func (p *Pool[T]) afterFunc(d time.Duration, fn func()) {
	timer := p.cfg.clock.NewTimer(d)
	go func() {
		<-timer.C()
		fn()
	}()
}

// publish fans events out to the logger and to every registered
// EventListener. Always called outside p.mu.
func (p *Pool[T]) publish(events []Event) {
	for _, e := range events {
		p.logEvent(e)
		for _, l := range p.cfg.listeners {
			notifyListener(l, e)
		}
	}
}

func notifyListener(l EventListener, e Event) {
	defer func() { _ = recover() }()
	l.OnEvent(e)
}

func (p *Pool[T]) logEvent(e Event) {
	args := []any{"event", string(e.Name)}
	if e.RequestID != "" {
		args = append(args, "request_id", e.RequestID)
	}
	if e.ResourceID != "" {
		args = append(args, "resource_id", e.ResourceID)
	}
	if e.Err != nil {
		p.cfg.logger.Error("pool event", append(args, "error", e.Err.Error())...)
		return
	}
	p.cfg.logger.Debug("pool event", args...)
}

// computeDeadline resolves the effective deadline for an Acquire call:
// an explicit per-call timeout wins, then the caller's context deadline,
// then the pool's default acquire timeout. A zero result means ageless.
func (p *Pool[T]) computeDeadline(now time.Time, ctx context.Context, o acquireOptions) time.Time {
	if o.timeoutSet {
		if o.timeout <= 0 {
			return time.Time{}
		}
		return now.Add(o.timeout)
	}
	if dl, ok := ctx.Deadline(); ok {
		return dl
	}
	if p.cfg.AcquireTimeout > 0 {
		return now.Add(p.cfg.AcquireTimeout)
	}
	return time.Time{}
}

// Acquire enqueues a request for a resource and blocks until it is
// served, it times out, the pool starts draining, or ctx is done (spec
// section 4.1 "acquire"). This is the idiomatic Go substitute for the
// source's callback-based acquire(options, completion): the completion
// is delivered via channel receive instead of an injected callback, but
// still fires exactly once either way.
func (p *Pool[T]) Acquire(ctx context.Context, opts ...AcquireOption) (T, error) {
	var zero T
	var o acquireOptions
	for _, opt := range opts {
		opt(&o)
	}
	origin := captureOrigin(1)

	p.mu.Lock()
	if p.draining {
		p.mu.Unlock()
		return zero, newPoolError(CodeAcquireDuringDraining, ErrAcquireDuringDraining.Message, origin)
	}
	if p.cfg.MaxRequests > 0 && p.queue.len() >= p.cfg.MaxRequests {
		p.mu.Unlock()
		return zero, newPoolError(CodeMaxRequestsLimit, ErrMaxRequestsLimit.Message, origin)
	}

	now := p.cfg.clock.Now()
	deadline := p.computeDeadline(now, ctx, o)
	req := newRequest[T](now, deadline, origin)
	if req.hasDeadline() {
		p.queue.pushAging(req)
	} else {
		p.queue.pushAgeless(req)
	}
	var sink eventSink
	sink.add(Event{Name: EventEnqueueRequest, At: now, RequestID: req.id})
	p.mu.Unlock()
	p.publish(sink.events)
	p.requestMaintenance()

	select {
	case res := <-req.completion:
		return res.value, res.err
	case <-ctx.Done():
		p.cancelRequest(req, ctx.Err())
		select {
		case res := <-req.completion:
			return res.value, res.err
		default:
			return zero, ctx.Err()
		}
	}
}

// cancelRequest removes req from the queue (if still pending) and
// completes it with cause. Safe to call concurrently with the maintainer
// serving or timing out the same request: whichever side wins the race
// to complete it first is the one that matters, the other is a no-op.
func (p *Pool[T]) cancelRequest(req *request[T], cause error) {
	p.mu.Lock()
	p.queue.remove(req)
	p.mu.Unlock()
	var zero T
	req.complete(zero, cause)
}

// TryAcquire is the non-blocking fast path (spec section 4.1
// "acquire_sync"): it takes one immediately usable free resource if one
// exists, serving it through the same accounting/eventing path as
// Acquire, and reports false otherwise or while draining. Per spec
// section 9's Open Question, draining TryAcquire is not treated as an
// error — it simply reports false.
func (p *Pool[T]) TryAcquire(opts ...AcquireOption) (T, bool) {
	var zero T
	p.mu.Lock()
	if p.draining {
		p.mu.Unlock()
		return zero, false
	}

	var sink eventSink
	rec := p.obtainFreeResourceLocked(&sink)
	if rec == nil {
		p.mu.Unlock()
		p.publish(sink.events)
		return zero, false
	}

	now := p.cfg.clock.Now()
	req := newRequest[T](now, time.Time{}, captureOrigin(1))
	rec.markLent(req)
	p.reg.addLent(rec)
	sink.add(Event{Name: EventServeSuccess, At: now, RequestID: req.id, ResourceID: rec.id})
	p.mu.Unlock()
	p.publish(sink.events)
	return rec.value, true
}

// Release returns value to the pool (spec section 4.2 "Release"). A
// value not currently lent (already released, or never acquired from
// this pool) is silently ignored, matching the idempotence the spec
// requires of Destroy.
func (p *Pool[T]) Release(value T) {
	p.mu.Lock()
	idx, rec := p.reg.findLent(value, p.factory.compare)
	if rec == nil {
		p.mu.Unlock()
		return
	}
	p.reg.removeLentAt(idx)

	var sink eventSink
	sink.add(Event{Name: EventRelease, At: p.cfg.clock.Now(), ResourceID: rec.id})
	p.storageCheckLocked(rec, &sink)
	p.mu.Unlock()
	p.publish(sink.events)
	p.requestMaintenance()
}

// Destroy removes value from the pool and destroys it, searching lent
// resources first then free ones (spec section 4.2 "Destroy"). Calling
// Destroy twice for the same value is equivalent to calling it once (R2).
func (p *Pool[T]) Destroy(value T) {
	p.mu.Lock()
	if idx, rec := p.reg.findLent(value, p.factory.compare); rec != nil {
		p.reg.removeLentAt(idx)
		var sink eventSink
		p.commissionDestroy(rec, &sink)
		p.mu.Unlock()
		p.publish(sink.events)
		p.requestMaintenance()
		return
	}
	if idx, rec := p.reg.findFree(value, p.factory.compare); rec != nil {
		p.reg.removeFreeAt(idx)
		var sink eventSink
		p.commissionDestroy(rec, &sink)
		p.mu.Unlock()
		p.publish(sink.events)
		p.requestMaintenance()
		return
	}
	p.mu.Unlock()
}

// SetMaintenanceInterval changes the periodic maintenance cadence; it
// takes effect the next time the periodic timer reschedules itself.
func (p *Pool[T]) SetMaintenanceInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	p.mu.Lock()
	p.cfg.MaintenanceInterval = d
	p.mu.Unlock()
}

// Stats is a point-in-time snapshot of the pool's population, useful for
// diagnostics and for the metrics subpackage's Recorder.
type Stats struct {
	Free       int
	Lent       int
	Creating   int
	Destroying int
	Waiting    int
	Draining   bool
}

// Stats returns a snapshot of the pool's current population.
func (p *Pool[T]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Free:       len(p.reg.free),
		Lent:       len(p.reg.lent),
		Creating:   p.reg.creatingCount,
		Destroying: p.reg.destroyingCount,
		Waiting:    p.queue.len(),
		Draining:   p.draining,
	}
}
