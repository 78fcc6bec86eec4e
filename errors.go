package threadpool

import "fmt"

// Sentinel errors returned by this package's operations. Callers match them
// with errors.Is, consistent with the *PoolError wrapping idiom below.
var (
	// ErrPoolStopped is returned by Submit once request_stop has made stop
	// visible; no task is enqueued. Already-queued and in-flight tasks still
	// run to completion — request_stop drains, it does not discard.
	ErrPoolStopped = &PoolError{msg: "pool is stopped"}

	// ErrCapacityExhausted is returned when every hazard slot in the
	// process-wide domain is already reserved. It indicates misconfiguration
	// (far more concurrent participants than the fixed-capacity registry was
	// sized for) rather than a transient condition.
	ErrCapacityExhausted = &PoolError{msg: "hazard domain capacity exhausted"}

	// ErrAllocationFailed is returned if cell allocation in Enqueue fails.
	// Queue state is left unchanged. In practice this is unreachable under
	// the Go runtime, which panics rather than returning an allocation
	// failure, but the error exists so the queue's public surface always has
	// somewhere to report an allocation failure if one ever occurred.
	ErrAllocationFailed = &PoolError{msg: "cell allocation failed"}

	// ErrNilTask is returned when Submit is called with a nil function.
	ErrNilTask = &PoolError{msg: "task is nil"}
)

// PoolError represents an error that occurred within this package. It wraps
// an optional underlying error and supports errors.Unwrap, following flock's
// *PoolError wrapping idiom.
type PoolError struct {
	msg string
	err error
}

func (e *PoolError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("threadpool: %s: %v", e.msg, e.err)
	}
	return fmt.Sprintf("threadpool: %s", e.msg)
}

func (e *PoolError) Unwrap() error {
	return e.err
}

func errInvalidConfig(msg string) error {
	return &PoolError{msg: "invalid config: " + msg}
}

// TaskFailure wraps the error or recovered panic value produced by a task's
// computation. It is never returned from Submit or any queue operation — it
// is stored in a Future and only surfaced from Future.Get, so that a task's
// failure never propagates into the worker loop itself.
type TaskFailure struct {
	// Panic is true if the computation panicked rather than returning an
	// error.
	Panic bool
	// Recovered holds the recovered panic value when Panic is true.
	Recovered any
	// Cause is the error the computation returned when Panic is false.
	Cause error
}

func (f *TaskFailure) Error() string {
	if f.Panic {
		return fmt.Sprintf("threadpool: task panicked: %v", f.Recovered)
	}
	return fmt.Sprintf("threadpool: task failed: %v", f.Cause)
}

func (f *TaskFailure) Unwrap() error {
	if f.Panic {
		return nil
	}
	return f.Cause
}
