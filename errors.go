package pool

import (
	"fmt"
	"runtime"
)

// ErrorCode is a stable identifier for an acquire failure, per spec section 6.
type ErrorCode string

const (
	// CodeAcquireDuringDraining is returned when acquire is called while the
	// pool is draining or already drained.
	CodeAcquireDuringDraining ErrorCode = "ACQUIRE_DURING_DRAINING"
	// CodeAcquireTimeout is returned when a request's deadline elapses
	// before a resource becomes available.
	CodeAcquireTimeout ErrorCode = "ACQUIRE_TIMEOUT_ERROR"
	// CodeAcquireAbortedByDrain is returned for requests queued at the
	// moment drain begins.
	CodeAcquireAbortedByDrain ErrorCode = "ACQUIRE_ABORTED_BY_DRAIN"
	// CodeMaxRequestsLimit is returned when the queue is already at
	// max_requests capacity.
	CodeMaxRequestsLimit ErrorCode = "MAX_REQUESTS_LIMIT"
)

// PoolError is the structured error delivered to an acquire caller: a
// stable code, a human message, and the captured call-site origin of the
// acquire that failed (spec section 7, "Propagation policy").
type PoolError struct {
	Code    ErrorCode
	Message string
	Origin  string
	Cause   error
}

func (e *PoolError) Error() string {
	if e.Origin != "" {
		return fmt.Sprintf("pool: %s: %s (acquired from %s)", e.Code, e.Message, e.Origin)
	}
	return fmt.Sprintf("pool: %s: %s", e.Code, e.Message)
}

func (e *PoolError) Unwrap() error { return e.Cause }

// Is makes PoolError comparable via errors.Is using only the code, so
// callers can check `errors.Is(err, pool.ErrAcquireTimeout)` regardless of
// the origin/message carried by the concrete instance.
func (e *PoolError) Is(target error) bool {
	other, ok := target.(*PoolError)
	if !ok {
		return false
	}
	return e.Code == other.Code
}

// Sentinel PoolErrors for use with errors.Is. Concrete errors returned to
// callers carry their own Origin/Message but share these Codes.
var (
	ErrAcquireDuringDraining = &PoolError{Code: CodeAcquireDuringDraining, Message: "acquire called while pool is draining"}
	ErrAcquireTimeout        = &PoolError{Code: CodeAcquireTimeout, Message: "timed out waiting for a resource"}
	ErrAcquireAbortedByDrain = &PoolError{Code: CodeAcquireAbortedByDrain, Message: "request aborted by drain"}
	ErrMaxRequestsLimit      = &PoolError{Code: CodeMaxRequestsLimit, Message: "request queue is at capacity"}
)

func newPoolError(code ErrorCode, message, origin string) *PoolError {
	return &PoolError{Code: code, Message: message, Origin: origin}
}

// captureOrigin returns a "file:line" description of the caller skip
// frames up from the function that invokes it, for attachment to queued
// requests so a later timeout error can point back at the acquire call site.
func captureOrigin(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", file, line)
}
