package threadpool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueue_EnqueueDequeueRoundTrip(t *testing.T) {
	q := NewQueue[int]()
	require.True(t, q.Empty())

	require.NoError(t, q.Enqueue(42))
	require.False(t, q.Empty())

	var out int
	ok, err := q.TryDequeue(&out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 42, out)
	require.True(t, q.Empty())
}

func TestQueue_TryDequeueOnEmptyLeavesOutUntouched(t *testing.T) {
	q := NewQueue[int]()
	out := 999
	ok, err := q.TryDequeue(&out)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 999, out)
}

func TestQueue_PreservesFIFOOrderSingleProducerSingleConsumer(t *testing.T) {
	q := NewQueue[int]()
	const n = 10_000
	for i := 0; i < n; i++ {
		require.NoError(t, q.Enqueue(i))
	}
	for i := 0; i < n; i++ {
		var out int
		ok, err := q.TryDequeue(&out)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, i, out)
	}
	require.True(t, q.Empty())
}

func TestQueue_MPMCCorrectness(t *testing.T) {
	q := NewQueue[int]()

	const numProducers = 4
	const perProducer = 50_000
	const numConsumers = 4
	const total = numProducers * perProducer

	var producersWg sync.WaitGroup
	for p := 0; p < numProducers; p++ {
		producersWg.Add(1)
		go func(p int) {
			defer producersWg.Done()
			for i := 0; i < perProducer; i++ {
				if err := q.Enqueue(p*perProducer + i); err != nil {
					t.Error(err)
					return
				}
			}
		}(p)
	}

	var producersDone sync.WaitGroup
	producersDone.Add(1)
	go func() {
		producersWg.Wait()
		producersDone.Done()
	}()

	var mu sync.Mutex
	seen := make(map[int]int, total)
	var consumersWg sync.WaitGroup
	stop := make(chan struct{})

	for c := 0; c < numConsumers; c++ {
		consumersWg.Add(1)
		go func() {
			defer consumersWg.Done()
			for {
				var v int
				ok, err := q.TryDequeue(&v)
				if err != nil {
					t.Error(err)
					return
				}
				if ok {
					mu.Lock()
					seen[v]++
					mu.Unlock()
					continue
				}
				select {
				case <-stop:
					if q.Empty() {
						return
					}
				default:
				}
			}
		}()
	}

	producersDone.Wait()
	close(stop)
	consumersWg.Wait()

	require.Len(t, seen, total)
	for v := 0; v < total; v++ {
		require.Equal(t, 1, seen[v], "value %d observed %d times", v, seen[v])
	}
}

func TestQueue_DrainRetiredAfterQuiescence(t *testing.T) {
	q := NewQueue[int]()
	for i := 0; i < 1000; i++ {
		require.NoError(t, q.Enqueue(i))
		var out int
		ok, err := q.TryDequeue(&out)
		require.NoError(t, err)
		require.True(t, ok)
	}
	// Quiescent: no other goroutine is touching any queue at this point.
	DrainRetired()
}
