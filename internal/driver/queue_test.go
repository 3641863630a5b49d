package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaykit/relaykit/internal/action"
)

func TestActionQueue_EnqueueDequeue(t *testing.T) {
	q := newActionQueue()

	ok := q.Enqueue(action.RecordGet{Name: "user/1"})
	require.True(t, ok, "enqueue should succeed")

	a, ok := q.TryDequeue()
	require.True(t, ok, "dequeue should succeed")
	assert.Equal(t, action.KindRecordGet, a.Kind())
}

func TestActionQueue_FIFO(t *testing.T) {
	q := newActionQueue()

	q.Enqueue(action.RecordGet{Name: "a"})
	q.Enqueue(action.RecordGet{Name: "b"})
	q.Enqueue(action.RecordGet{Name: "c"})

	for _, want := range []string{"a", "b", "c"} {
		a, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, want, a.(action.RecordGet).Name)
	}
}

func TestActionQueue_TryDequeue_Empty(t *testing.T) {
	q := newActionQueue()

	_, ok := q.TryDequeue()
	assert.False(t, ok, "dequeue from empty queue should return false")
}

func TestActionQueue_EnqueueAfterClose(t *testing.T) {
	q := newActionQueue()
	q.Close()

	ok := q.Enqueue(action.Logout{})
	assert.False(t, ok, "enqueue after close should fail")
}

func TestActionQueue_CloseWakesWaiters(t *testing.T) {
	q := newActionQueue()
	q.Close()

	select {
	case <-q.Wait():
		// closed signal channel is always ready
	default:
		t.Fatal("Wait channel should be closed after Close")
	}
}

func TestActionQueue_StaleSignalAfterDrain(t *testing.T) {
	q := newActionQueue()
	q.Enqueue(action.Logout{})

	_, ok := q.TryDequeue()
	require.True(t, ok)

	// The coalesced availability signal is still buffered even though
	// the queue is empty again. An empty open queue must not be taken
	// for a closed one.
	select {
	case <-q.Wait():
		assert.Equal(t, 0, q.Len())
		assert.False(t, q.Closed())
	default:
		t.Fatal("availability signal should still be buffered")
	}

	// With the stale signal consumed the channel goes quiet until the
	// next enqueue or Close.
	select {
	case <-q.Wait():
		t.Fatal("no further signal expected")
	default:
	}
}

func TestActionQueue_Closed(t *testing.T) {
	q := newActionQueue()
	assert.False(t, q.Closed())

	q.Close()
	assert.True(t, q.Closed())
}

func TestActionQueue_Len(t *testing.T) {
	q := newActionQueue()
	assert.Equal(t, 0, q.Len())

	q.Enqueue(action.Logout{})
	q.Enqueue(action.Logout{})
	assert.Equal(t, 2, q.Len())

	q.TryDequeue()
	assert.Equal(t, 1, q.Len())
}
