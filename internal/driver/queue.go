package driver

import (
	"sync"

	"github.com/relaykit/relaykit/internal/action"
)

// actionQueue is a thread-safe FIFO queue for inbound actions.
//
// The queue is unbounded so a bursty upstream stream never blocks while
// the loop is mid-operation.
//
// Thread-safety is provided for external producers (application code,
// stream bridges) while the driver's Run loop dequeues. The queue uses a
// channel for signaling to enable context-aware waiting in the Run loop.
type actionQueue struct {
	mu      sync.Mutex
	actions []action.Action
	closed  bool
	signal  chan struct{} // Signals action availability (buffered, size 1)
}

// newActionQueue creates an empty action queue.
func newActionQueue() *actionQueue {
	return &actionQueue{
		actions: make([]action.Action, 0, 64),
		signal:  make(chan struct{}, 1),
	}
}

// Enqueue adds an action to the back of the queue.
// Thread-safe: may be called from any goroutine.
// Returns false if the queue is closed.
func (q *actionQueue) Enqueue(a action.Action) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.actions = append(q.actions, a)

	// Signal availability (non-blocking - buffer of 1 coalesces signals)
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue attempts to dequeue without blocking.
// Returns (nil, false) if the queue is empty.
func (q *actionQueue) TryDequeue() (action.Action, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.actions) == 0 {
		return nil, false
	}

	a := q.actions[0]

	// Nil out the slot so the backing array does not retain the action
	// after processing.
	q.actions[0] = nil

	if len(q.actions) == 1 {
		q.actions = q.actions[:0]
	} else {
		q.actions = q.actions[1:]
	}

	return a, true
}

// Wait returns a channel that signals when actions may be available.
// Use with select for context-aware waiting. The channel closes when the
// queue is closed, which wakes all waiters.
func (q *actionQueue) Wait() <-chan struct{} {
	return q.signal
}

// Closed reports whether Close has been called.
func (q *actionQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the current queue length.
func (q *actionQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.actions)
}

// Close signals that no more actions will be enqueued.
func (q *actionQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
