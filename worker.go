package threadpool

// worker is one goroutine in the pool's fixed-size goroutine group. It owns
// no state of its own beyond identity; all shared state lives on Pool.
type worker struct {
	id   int
	pool *Pool
}

func newWorker(id int, pool *Pool) *worker {
	return &worker{id: id, pool: pool}
}

// run is the worker loop: snapshot the wake sequence, drain whatever is
// queued, check for stop, and sleep until woken. The snapshot is taken
// before the fast-path dequeue attempt, not after — snapshotting after
// opens a window where a wake published between the failed dequeue and the
// snapshot is silently missed, and the worker sleeps past work that is
// already sitting in the queue.
func (w *worker) run() {
	defer w.pool.wg.Done()

	w.pool.cfg.logger.WithField("worker", w.id).Debug("worker started")

	for {
		seen := w.pool.wake.snapshot()

		for w.drainOne() {
		}

		if w.pool.wake.stopped() {
			for w.drainOne() {
			}
			break
		}

		w.pool.wake.waitUntilChanged(seen)
	}

	w.pool.cfg.logger.WithField("worker", w.id).Debug("worker exiting")
}

// drainOne dequeues and invokes at most one task, reporting whether it found
// one. Task execution happens with no pool or queue lock held.
func (w *worker) drainOne() bool {
	var thunk func()
	ok, err := w.pool.queue.TryDequeue(&thunk)
	if err != nil {
		w.pool.cfg.logger.WithError(err).WithField("worker", w.id).Error("dequeue failed")
		return false
	}
	if !ok {
		return false
	}
	// thunk always wraps a Task.Invoke call (see pool.go's Submit), which
	// recovers its own panics into the task's Future; the worker loop never
	// needs a panic guard of its own.
	thunk()
	return true
}
