package threadpool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTask_InvokeCompletesFutureOnSuccess(t *testing.T) {
	task, future := NewTask(func() (int, error) { return 9, nil })

	require.False(t, future.Ready())
	task.Invoke()
	require.True(t, future.Ready())

	v, err := future.Get()
	require.NoError(t, err)
	require.Equal(t, 9, v)
}

func TestTask_InvokeCompletesFutureOnError(t *testing.T) {
	cause := errors.New("failed")
	task, future := NewTask(func() (int, error) { return 0, cause })

	task.Invoke()

	_, err := future.Get()
	require.Error(t, err)
	require.ErrorIs(t, err, cause)
}

func TestTask_InvokeOnlyRunsOnceAcrossCopies(t *testing.T) {
	var calls int
	task, future := NewTask(func() (int, error) {
		calls++
		return calls, nil
	})

	copy1 := task
	copy2 := task

	copy1.Invoke()
	copy2.Invoke()
	task.Invoke()

	require.Equal(t, 1, calls)
	v, err := future.Get()
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestTask_PanicIsRecoveredIntoFailure(t *testing.T) {
	task, future := NewTask(func() (int, error) {
		panic("boom")
	})

	task.Invoke()

	_, err := future.Get()
	require.Error(t, err)
	var failure *TaskFailure
	require.ErrorAs(t, err, &failure)
	require.True(t, failure.Panic)
	require.Equal(t, "boom", failure.Recovered)
}

func TestFuture_WaitDoesNotConsumeResult(t *testing.T) {
	task, future := NewTask(func() (string, error) { return "hi", nil })
	task.Invoke()

	future.Wait()
	v, err := future.Get()
	require.NoError(t, err)
	require.Equal(t, "hi", v)
}
