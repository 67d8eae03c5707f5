package pool

import (
	"context"
	"reflect"
	"time"
)

// Factory is the caller-supplied contract from spec section 6 ("Factory
// contract (caller -> pool)"). Create/Destroy are ordinary blocking calls
// rather than callback-style APIs: a Go function call already returns
// exactly once, which satisfies the spec's "at-most-once completion"
// requirement without the explicit "called" guard the source needed for
// its callback-based create/destroy (spec section 9, "Double-completion
// guards" — that guard is still enforced, just at the request.complete
// level, where two independent code paths can race to finish the same
// acquire).
type Factory[T any] struct {
	// Create obtains a new resource. Errors are reported via the
	// createError event, never to an acquire caller (spec section 7).
	Create func(ctx context.Context) (T, error)
	// Destroy releases a resource for good. Any error is the caller's
	// concern to log; the pool only waits for the call to return.
	Destroy func(ctx context.Context, value T)
	// Validate reports whether value may still be served or stored.
	// Defaults to always-true (spec section 4.3).
	Validate func(value T) bool
	// Compare reports whether a and b refer to the same resource, used
	// to locate a value on Release/Destroy (spec section 4.2). Defaults
	// to pointer identity for pointer-shaped T, structural equality
	// otherwise, approximating the spec's "identity-equality" default
	// for a T that is not constrained to be comparable.
	Compare func(a, b T) bool
	// Backoff returns the delay to hold a creating slot for after a
	// failed Create, rate-limiting retries (spec section 4.3, section 9
	// "Backoff semantics"). Nil means no backoff: the slot is released
	// immediately on failure.
	Backoff func() time.Duration
}

func (f Factory[T]) validate(v T) bool {
	if f.Validate == nil {
		return true
	}
	return f.Validate(v)
}

func (f Factory[T]) compare(a, b T) bool {
	if f.Compare != nil {
		return f.Compare(a, b)
	}
	return defaultCompare(a, b)
}

func defaultCompare[T any](a, b T) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Ptr && vb.Kind() == reflect.Ptr {
		return va.Pointer() == vb.Pointer()
	}
	return reflect.DeepEqual(a, b)
}

// commissionCreate reserves a creating slot and starts the factory's
// Create in its own goroutine; its result re-enters the serialized core
// through handleCreateResult (spec section 5, "Suspension points").
func (p *Pool[T]) commissionCreate() {
	p.reg.creatingCount++
	rec := newResourceRecord[T]()
	go func() {
		value, err := p.factory.Create(context.Background())
		p.handleCreateResult(rec, value, err)
	}()
}

func (p *Pool[T]) handleCreateResult(rec *resourceRecord[T], value T, err error) {
	p.mu.Lock()
	var sink eventSink
	now := p.cfg.clock.Now()

	if err != nil {
		sink.add(Event{Name: EventCreateError, At: now, ResourceID: rec.id, Err: err})
		if p.factory.Backoff != nil {
			delay := p.factory.Backoff()
			p.mu.Unlock()
			p.publish(sink.events)
			p.afterFunc(delay, func() {
				p.mu.Lock()
				p.reg.creatingCount--
				p.mu.Unlock()
				p.requestMaintenance()
			})
			return
		}
		p.reg.creatingCount--
		p.mu.Unlock()
		p.publish(sink.events)
		p.requestMaintenance()
		return
	}

	rec.value = value
	rec.createdAt = now
	if p.cfg.ExpireTimeout > 0 {
		rec.expiresAt = now.Add(p.cfg.ExpireTimeout)
	}
	p.reg.creatingCount--
	sink.add(Event{Name: EventCreateSuccess, At: now, ResourceID: rec.id})
	p.storageCheckLocked(rec, &sink)
	p.mu.Unlock()
	p.publish(sink.events)
	p.requestMaintenance()
}

// storageCheckLocked admits rec to the free list, or destroys it, per
// spec section 4.2 "Storage check". Caller must hold p.mu.
func (p *Pool[T]) storageCheckLocked(rec *resourceRecord[T], sink *eventSink) {
	if !p.draining && p.factory.validate(rec.value) {
		rec.markFree(p.cfg.clock.Now())
		p.reg.pushFree(rec)
		return
	}
	p.commissionDestroy(rec, sink)
}

// commissionDestroy transitions rec into the destroying state and starts
// the factory's Destroy in its own goroutine (spec section 4.3
// "Destroy"). Caller must hold p.mu.
func (p *Pool[T]) commissionDestroy(rec *resourceRecord[T], sink *eventSink) {
	rec.state = resourceDestroying
	p.reg.destroyingCount++
	sink.add(Event{Name: EventDestroy, At: p.cfg.clock.Now(), ResourceID: rec.id})
	go func() {
		p.factory.Destroy(context.Background(), rec.value)
		p.mu.Lock()
		p.reg.destroyingCount--
		p.mu.Unlock()
		p.requestMaintenance()
	}()
}

// obtainFreeResourceLocked pops free resources, lazily destroying any
// that fail Validate, until a usable one is found or the list is
// exhausted (spec section 4.4, "Next free resource policy"). Caller must
// hold p.mu.
func (p *Pool[T]) obtainFreeResourceLocked(sink *eventSink) *resourceRecord[T] {
	for {
		rec := p.reg.popFreeHead()
		if rec == nil {
			return nil
		}
		if p.factory.validate(rec.value) {
			return rec
		}
		p.commissionDestroy(rec, sink)
	}
}
