package pool

import (
	"time"

	"github.com/google/uuid"
)

// resourceState is one of the four states a resourceRecord may be in
// (spec section 3, "Resource record").
type resourceState int

const (
	resourceCreating resourceState = iota
	resourceFree
	resourceLent
	resourceDestroying
)

func (s resourceState) String() string {
	switch s {
	case resourceCreating:
		return "creating"
	case resourceFree:
		return "free"
	case resourceLent:
		return "lent"
	case resourceDestroying:
		return "destroying"
	default:
		return "unknown"
	}
}

// resourceRecord is the pool's bookkeeping for one live resource instance
// (spec section 3, "Resource record"). The zero value of expiresAt means
// "no absolute lifetime configured"; the zero value of idleAt means "not
// currently free" (it is cleared on lend and set on every entry into the
// free state).
type resourceRecord[T any] struct {
	id         string
	value      T
	createdAt  time.Time
	expiresAt  time.Time
	idleAt     time.Time
	state      resourceState
	assignedRequest *request[T]
}

func newResourceRecord[T any]() *resourceRecord[T] {
	return &resourceRecord[T]{id: uuid.NewString(), state: resourceCreating}
}

func (r *resourceRecord[T]) hasExpiry() bool { return !r.expiresAt.IsZero() }

func (r *resourceRecord[T]) markFree(now time.Time) {
	r.assignedRequest = nil
	r.idleAt = now
	r.state = resourceFree
}

func (r *resourceRecord[T]) markLent(req *request[T]) {
	r.idleAt = time.Time{}
	r.assignedRequest = req
	r.state = resourceLent
}
