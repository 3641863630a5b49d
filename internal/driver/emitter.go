package driver

import (
	"log/slog"
	"sync"

	"github.com/relaykit/relaykit/internal/event"
)

// emitter is the single emission channel all handlers and backend
// callbacks feed into. Every event is seq-stamped from the logical clock
// at emission time, then queued; external consumers observe the queue as
// one unified, continuously-open output stream.
//
// Two consumption styles are supported and must not be mixed:
//   - Events() starts a pump goroutine and exposes a channel that closes
//     when the emitter is closed and drained (production).
//   - Drain() synchronously collects everything queued so far
//     (harness/replay, where processing is already complete).
//
// Thread-safety: emit is safe from any goroutine; backend completion
// callbacks emit directly.
type emitter struct {
	clock Sequencer
	debug bool

	mu     sync.Mutex
	events []event.Event
	closed bool
	signal chan struct{}

	pumpOnce sync.Once
	out      chan event.Event
}

func newEmitter(clock Sequencer, debug bool) *emitter {
	return &emitter{
		clock:  clock,
		debug:  debug,
		events: make([]event.Event, 0, 64),
		signal: make(chan struct{}, 1),
	}
}

// emit stamps and queues one event. Events arriving after close are
// dropped - the owning driver has already stopped.
func (e *emitter) emit(ev event.Event) {
	ev.Seq = e.clock.Next()

	if e.debug {
		slog.Debug("event emitted",
			"event", string(ev.Kind),
			"name", ev.Name,
			"scope", ev.Scope,
			"seq", ev.Seq,
		)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.events = append(e.events, ev)

	select {
	case e.signal <- struct{}{}:
	default:
	}
}

// Events returns the consumer-facing output channel, starting the pump on
// first call. The channel closes once the emitter is closed and fully
// drained.
func (e *emitter) Events() <-chan event.Event {
	e.pumpOnce.Do(func() {
		e.out = make(chan event.Event, 16)
		go e.pump()
	})
	return e.out
}

func (e *emitter) pump() {
	for {
		ev, ok := e.tryDequeue()
		if ok {
			e.out <- ev
			continue
		}

		e.mu.Lock()
		done := e.closed && len(e.events) == 0
		e.mu.Unlock()
		if done {
			close(e.out)
			return
		}

		// The signal channel closes on Close, so this never hangs.
		<-e.signal
	}
}

func (e *emitter) tryDequeue() (event.Event, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.events) == 0 {
		return event.Event{}, false
	}

	ev := e.events[0]
	e.events[0] = event.Event{}
	if len(e.events) == 1 {
		e.events = e.events[:0]
	} else {
		e.events = e.events[1:]
	}
	return ev, true
}

// Drain synchronously removes and returns every queued event.
func (e *emitter) Drain() []event.Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := e.events
	e.events = make([]event.Event, 0, 16)
	return out
}

// Close stops accepting events and wakes the pump so the output channel
// can drain and close.
func (e *emitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	close(e.signal)
}
