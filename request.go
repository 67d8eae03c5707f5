package pool

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// request is one pending acquire (spec section 3, "Request record"). A
// zero deadline means the request is ageless. completion is the
// single-shot channel a served/failed result is delivered on; done guards
// against the at-most-once invariant (spec section 5, "Ordering
// guarantees": "for any single request, completion is invoked exactly
// once").
type request[T any] struct {
	id         string
	createdAt  time.Time
	deadline   time.Time
	origin     string
	done       uint32
	completion chan acquireResult[T]
}

type acquireResult[T any] struct {
	value T
	err   error
}

func newRequest[T any](now time.Time, deadline time.Time, origin string) *request[T] {
	return &request[T]{
		id:         uuid.NewString(),
		createdAt:  now,
		deadline:   deadline,
		origin:     origin,
		completion: make(chan acquireResult[T], 1),
	}
}

func (r *request[T]) hasDeadline() bool { return !r.deadline.IsZero() }

// complete delivers value/err exactly once; subsequent calls are ignored.
// This is the pool's double-completion guard (spec section 9,
// "Double-completion guards"); the factory's Create/Destroy need none.
func (r *request[T]) complete(value T, err error) bool {
	if !atomic.CompareAndSwapUint32(&r.done, 0, 1) {
		return false
	}
	r.completion <- acquireResult[T]{value: value, err: err}
	return true
}

// acquireOptions carries the per-call overrides accepted by Acquire and
// TryAcquire (spec section 6, "options = {timeout?}").
type acquireOptions struct {
	timeout    time.Duration
	timeoutSet bool
}

// AcquireOption customizes a single Acquire/TryAcquire call.
type AcquireOption func(*acquireOptions)

// WithTimeout overrides the pool's default acquire timeout for one call.
// A zero duration requests an ageless (never-expiring) wait.
func WithTimeout(d time.Duration) AcquireOption {
	return func(o *acquireOptions) {
		o.timeout = d
		o.timeoutSet = true
	}
}
