package threadpool

import "sync"

// Future is the handle a Submit caller uses to observe a task's result.
// Exactly one of value/failure is meaningful once Ready reports true.
type Future[R any] struct {
	mu   sync.Mutex
	cond *sync.Cond
	done bool

	value   R
	failure error
}

func newFuture[R any]() *Future[R] {
	f := &Future[R]{}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Get blocks until the computation has completed or failed, then returns the
// value or re-surfaces the failure (a *TaskFailure). Calling Get more than
// once is safe — it keeps returning the same completed result.
func (f *Future[R]) Get() (R, error) {
	f.mu.Lock()
	for !f.done {
		f.cond.Wait()
	}
	v, err := f.value, f.failure
	f.mu.Unlock()
	return v, err
}

// Wait blocks until the computation has completed, without consuming the
// result.
func (f *Future[R]) Wait() {
	f.mu.Lock()
	for !f.done {
		f.cond.Wait()
	}
	f.mu.Unlock()
}

// Ready reports, without blocking, whether the computation has completed.
func (f *Future[R]) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

func (f *Future[R]) complete(v R, failure error) {
	f.mu.Lock()
	f.value, f.failure = v, failure
	f.done = true
	f.mu.Unlock()
	f.cond.Broadcast()
}

// taskState is the shared, internally-mutable state a Task envelope's copies
// all point to. sync.Once enforces that invocation consumes the computation
// slot and subsequent invocations are disallowed, without requiring explicit
// reference counting — Go's garbage collector owns the state's lifetime once
// every copy of the Task handle has gone out of scope.
type taskState[R any] struct {
	fn     func() (R, error)
	once   sync.Once
	future *Future[R]
}

// Task is a copyable handle over a single-shot computation plus a result
// promise. All copies of a Task share one computation; the first Invoke
// consumes it. Callers must not share a Task handle across more than one
// executor — this package never does, since a Task is built and invoked
// only by Pool.Submit/worker machinery.
type Task[R any] struct {
	state *taskState[R]
}

// NewTask wraps fn in a Task envelope and returns it alongside the Future
// that will observe its result.
func NewTask[R any](fn func() (R, error)) (Task[R], *Future[R]) {
	fut := newFuture[R]()
	return Task[R]{state: &taskState[R]{fn: fn, future: fut}}, fut
}

// Invoke runs the wrapped computation exactly once across every copy of this
// Task. A panic inside the computation is recovered and surfaced through the
// Future as a TaskFailure — it never escapes Invoke, and so never propagates
// into the worker loop that called it.
func (t Task[R]) Invoke() {
	t.state.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				var zero R
				t.state.future.complete(zero, &TaskFailure{Panic: true, Recovered: r})
			}
		}()
		v, err := t.state.fn()
		if err != nil {
			t.state.future.complete(v, &TaskFailure{Cause: err})
			return
		}
		t.state.future.complete(v, nil)
	})
}
