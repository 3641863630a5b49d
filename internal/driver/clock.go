package driver

import "sync/atomic"

// Sequencer stamps outbound events with a monotonic sequence number.
// Implemented by Clock (production) and testutil.DeterministicClock (tests).
type Sequencer interface {
	Next() int64
}

// Clock is a monotonic logical clock for output-event ordering.
//
// Every emitted event is stamped with a strictly increasing seq number so
// transcripts are totally ordered without wall-clock race conditions and
// golden comparisons are deterministic.
//
// Thread-safety: safe for concurrent use (atomic operations). Backend
// completion callbacks stamp events from their own goroutines.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0. The first Next() returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
// Calls are linearizable - each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
