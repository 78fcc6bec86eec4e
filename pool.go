package threadpool

import (
	"sync"
	"sync/atomic"
)

// poolState is the pool's three-state lifecycle: Running, Stopping, Stopped.
type poolState uint32

const (
	poolRunning poolState = iota
	poolStopping
	poolStopped
)

// Pool is the C6 worker pool: a fixed number of goroutines draining a shared
// Queue[func()] under a shared wakeCoordinator. The zero value is not usable;
// construct with NewPool.
type Pool struct {
	cfg   config
	queue *Queue[func()]
	wake  *wakeCoordinator

	wg sync.WaitGroup

	// state and submitMu together enforce a submit-section → wake-section
	// lock order without serializing producers against each other: Submit
	// takes submitMu's read side across its visibility check and its
	// enqueue+publishWake, so any number of submitters run that section
	// concurrently (the queue itself stays lock-free under them); RequestStop
	// takes the write side, so its state transition can never become visible
	// to a waking worker while a submit that predates it is still in flight.
	state    atomic.Uint32
	submitMu sync.RWMutex
}

// NewPool constructs a running Pool and starts its fixed worker count
// immediately. A worker count of 0 (the default, on hosts where detected
// parallelism reports 0) normalizes to 1 rather than producing a pool with
// no workers.
func NewPool(opts ...Option) (*Pool, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.normalize()

	p := &Pool{
		cfg:   cfg,
		queue: NewQueue[func()](),
		wake:  newWakeCoordinator(),
	}
	p.state.Store(uint32(poolRunning))

	p.wg.Add(cfg.numWorkers)
	for i := 0; i < cfg.numWorkers; i++ {
		w := newWorker(i, p)
		go w.run()
	}
	return p, nil
}

// Submit wraps fn in a Task envelope, enqueues a type-erased thunk that
// invokes it, and publishes a wake. It fails with ErrPoolStopped if
// RequestStop has already made stop visible, in which case nothing is
// enqueued and no wake-seq bump occurs — a failing submit after a
// successful in-critical-section wake-seq bump is disallowed by
// construction.
//
// Go's lack of variadic generic methods means Submit takes a zero-argument
// closure rather than a variadic submit(fn, args...); callers close over
// their own arguments, the idiomatic Go shape for this.
func Submit[R any](p *Pool, fn func() (R, error)) (*Future[R], error) {
	if fn == nil {
		return nil, ErrNilTask
	}

	task, future := NewTask(fn)

	p.submitMu.RLock()
	defer p.submitMu.RUnlock()

	if poolState(p.state.Load()) != poolRunning {
		return nil, ErrPoolStopped
	}

	if err := p.queue.Enqueue(func() { task.Invoke() }); err != nil {
		return nil, err
	}
	p.wake.publishWake()
	return future, nil
}

// RequestStop idempotently transitions the pool to Stopping: no further
// Submit succeeds, and every worker is woken to begin draining. Calling it
// more than once has the same observable effect as calling it once.
func (p *Pool) RequestStop() {
	p.submitMu.Lock()
	p.state.CompareAndSwap(uint32(poolRunning), uint32(poolStopping))
	p.submitMu.Unlock()

	p.wake.publishStopAll()
}

// Size reports the pool's fixed worker count W.
func (p *Pool) Size() int {
	return p.cfg.numWorkers
}

// Close is the pool's destructor: RequestStop, join all workers (who drain
// every remaining queued task before exiting), then DrainRetired exactly
// once. Close is idempotent but not safe to call concurrently with itself.
//
// The shutdown ordering here is load-bearing: stop, then join (so no worker
// is still using a participant from participantPool), then drain —
// DrainRetired flushes every idle cached participant's retirement list to
// the global list and then reclaims that list.
// Calling DrainRetired before every worker has joined is a quiescence
// violation.
func (p *Pool) Close() {
	p.RequestStop()
	p.wg.Wait()
	p.state.Store(uint32(poolStopped))
	DrainRetired()
}

// IsStopped reports whether the pool has finished joining its workers.
func (p *Pool) IsStopped() bool {
	return poolState(p.state.Load()) == poolStopped
}
