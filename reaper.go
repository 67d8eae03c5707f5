package pool

import "time"

// reapExpiredLocked destroys every free resource whose expires_at has
// passed, on the expiry cadence (spec section 4.4, "Expiry sweep").
// expires_at is fixed at creation and never refreshed by reuse. Caller
// must hold p.mu.
func (p *Pool[T]) reapExpiredLocked(now time.Time, sink *eventSink) {
	if p.cfg.ExpireTimeout <= 0 {
		return
	}
	if !now.After(p.lastExpireCheckAt.Add(p.cfg.ExpireCheckInterval)) {
		return
	}
	p.lastExpireCheckAt = now

	survivors := p.reg.free[:0:0]
	for _, rec := range p.reg.free {
		if rec.hasExpiry() && rec.expiresAt.Before(now) {
			p.commissionDestroy(rec, sink)
			continue
		}
		survivors = append(survivors, rec)
	}
	p.reg.free = survivors
}

// reapIdleLocked destroys every free resource that has sat idle longer
// than idle_timeout, on the idle cadence (spec section 4.4, "Idle
// sweep"). idle_at is refreshed on every release. Caller must hold p.mu.
func (p *Pool[T]) reapIdleLocked(now time.Time, sink *eventSink) {
	if p.cfg.IdleTimeout <= 0 {
		return
	}
	if !now.After(p.lastIdleCheckAt.Add(p.cfg.IdleCheckInterval)) {
		return
	}
	p.lastIdleCheckAt = now

	survivors := p.reg.free[:0:0]
	for _, rec := range p.reg.free {
		if rec.idleAt.Add(p.cfg.IdleTimeout).Before(now) {
			p.commissionDestroy(rec, sink)
			continue
		}
		survivors = append(survivors, rec)
	}
	p.reg.free = survivors
}
