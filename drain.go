package pool

import "context"

// Drain implements the two-phase shutdown of spec section 4.6. The first
// call rejects further acquires, cancels every queued request with
// ACQUIRE_ABORTED_BY_DRAIN, and destroys every free resource; every call
// (first or not) then waits for the population to reach zero and returns.
// Drain is idempotent-by-effect (spec invariant 6, R3): calling it again
// after the pool is already drained returns immediately.
func (p *Pool[T]) Drain(ctx context.Context) error {
	p.mu.Lock()
	first := !p.draining
	var sink eventSink
	if first {
		p.draining = true
		now := p.cfg.clock.Now()

		for _, req := range p.queue.takeAll() {
			err := newPoolError(CodeAcquireAbortedByDrain, ErrAcquireAbortedByDrain.Message, req.origin)
			var zero T
			req.complete(zero, err)
			sink.add(Event{Name: EventServeError, At: now, RequestID: req.id, Err: err})
		}

		free := p.reg.free
		p.reg.free = nil
		for _, rec := range free {
			p.commissionDestroy(rec, &sink)
		}
	}
	p.mu.Unlock()
	p.publish(sink.events)

	return p.waitForDrained(ctx)
}

// waitForDrained polls the total population on a timer bounded by
// maintenance_latency so it never busy-polls the scheduler (spec section
// 9, Open Question on drain-wait cadence).
func (p *Pool[T]) waitForDrained(ctx context.Context) error {
	for {
		p.mu.Lock()
		total := p.reg.total()
		if total == 0 {
			var sink eventSink
			if !p.drainEventEmitted {
				p.drainEventEmitted = true
				sink.add(Event{Name: EventDrain, At: p.cfg.clock.Now()})
			}
			p.mu.Unlock()
			p.publish(sink.events)
			return nil
		}
		interval := p.cfg.MaintenanceLatency
		p.mu.Unlock()

		timer := p.cfg.clock.NewTimer(interval)
		select {
		case <-timer.C():
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// Draining reports whether the pool has begun (or finished) draining.
func (p *Pool[T]) Draining() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draining
}
