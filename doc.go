// Package threadpool provides a lock-free, hazard-pointer-protected worker
// pool built around a Michael-Scott multi-producer/multi-consumer queue.
//
// # Key Features
//
//   - Unbounded, lock-free MPMC queue with hazard-pointer safe memory
//     reclamation (no ABA, no use-after-retire)
//   - Generic Task/Future envelope: Submit returns a typed future you can
//     Get, Wait, or poll with Ready
//   - Event-count wake coordinator that closes the classic lost-wakeup race
//     between a worker deciding the queue is empty and a producer publishing
//     a new task
//   - Draining shutdown: RequestStop stops accepting new work but still runs
//     every already-queued task to completion
//   - Panic recovery: a task's panic is captured into its Future, never
//     propagated into the worker loop
//
// # Quick Start
//
//	pool, err := threadpool.NewPool(threadpool.WithWorkers(8))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Close()
//
//	future, err := threadpool.Submit(pool, func() (int, error) {
//	    return 42, nil
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v, err := future.Get()
//
// # Configuration
//
// Customize the pool with functional options:
//
//	pool, err := threadpool.NewPool(
//	    threadpool.WithWorkers(4),
//	    threadpool.WithLogger(myLogrusLogger),
//	)
//
// # Shutdown
//
// Close requests stop, joins every worker (each worker drains its remaining
// queued tasks before exiting), then reclaims every node retired anywhere in
// the process. Calling RequestStop more than once, or before Close, is safe
// and idempotent; Submit after RequestStop fails with ErrPoolStopped without
// enqueuing anything.
//
//	pool.RequestStop() // stop accepting new work; queued work still runs
//	pool.Close()        // join workers, then reclaim retired queue nodes
//
// # Standalone Queue
//
// The MPMC queue underlying the pool is also exposed directly for callers
// that want a lock-free FIFO without a worker pool attached:
//
//	q := threadpool.NewQueue[int]()
//	_ = q.Enqueue(1)
//	var out int
//	ok, err := q.TryDequeue(&out)
//
// Call threadpool.DrainRetired only once every goroutine that ever touched
// any Queue has exited — violating that precondition is a quiescence
// violation, not a recoverable error.
//
// # Thread Safety
//
// Every exported method on Pool, Queue, Future, and Task is safe for
// concurrent use from any number of goroutines, including worker goroutines
// themselves (for task chaining via Submit). The one exception is Pool.Close,
// which must not be called concurrently with itself.
package threadpool
