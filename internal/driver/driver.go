package driver

import (
	"context"
	"log/slog"

	"github.com/relaykit/relaykit/internal/action"
	"github.com/relaykit/relaykit/internal/backend"
	"github.com/relaykit/relaykit/internal/event"
)

// Config carries the driver's construction parameters.
type Config struct {
	// Endpoint is the backend address, passed through to the Dialer.
	Endpoint string

	// Options is an opaque bag of backend-specific connection options.
	Options backend.Options

	// Dialer constructs backend clients. Required.
	Dialer backend.Dialer

	// Debug echoes action/event traffic to the diagnostic log.
	Debug bool

	// Clock stamps outbound events. Defaults to a fresh Clock.
	Clock Sequencer

	// Tokens generates session correlation tokens.
	// Defaults to UUIDv7Generator.
	Tokens TokenGenerator
}

// Driver is the intent-driven realtime synchronization adapter.
//
// Inbound actions enter through Submit/SubmitDoc and are processed in FIFO
// order by the single-writer Run loop; outbound events leave through
// Events (or Drain). The session - backend client plus per-session caches -
// is owned exclusively by the loop.
//
// Thread-safety model:
//   - Submit/SubmitDoc: safe from any goroutine
//   - Run: must be called from exactly one goroutine
//   - Events/Drain: safe from any goroutine, but pick one style
type Driver struct {
	cfg    Config
	queue  *actionQueue
	em     *emitter
	tokens TokenGenerator

	// session is mutated only by the Run loop (login/logout handlers).
	session *session
}

// New creates a Driver. The Dialer is the only required configuration.
func New(cfg Config) *Driver {
	if cfg.Clock == nil {
		cfg.Clock = NewClock()
	}
	tokens := cfg.Tokens
	if tokens == nil {
		tokens = UUIDv7Generator{}
	}

	return &Driver{
		cfg:    cfg,
		queue:  newActionQueue(),
		em:     newEmitter(cfg.Clock, cfg.Debug),
		tokens: tokens,
	}
}

// Submit enqueues one decoded action for processing.
// Thread-safe: may be called from any goroutine.
// Returns false if the driver has been stopped.
func (d *Driver) Submit(a action.Action) bool {
	if d.cfg.Debug {
		slog.Debug("action received", "action", a.Kind())
	}
	return d.queue.Enqueue(a)
}

// SubmitDoc decodes a loosely-typed action document and enqueues it.
// Unrecognized or incomplete documents are dropped silently (the stream
// carries many unrelated concerns); the drop surfaces only at debug level.
func (d *Driver) SubmitDoc(doc map[string]any) bool {
	a, ok := action.Decode(doc)
	if !ok {
		slog.Debug("action dropped: unmatched document")
		return false
	}
	return d.Submit(a)
}

// Events returns the unified output stream. The channel stays open for
// the driver's lifetime and closes after Stop (or context cancellation)
// once every emitted event has been delivered.
func (d *Driver) Events() <-chan event.Event {
	return d.em.Events()
}

// Drain synchronously collects every event emitted so far. Intended for
// replay/harness use after Run has returned; do not mix with Events.
func (d *Driver) Drain() []event.Event {
	return d.em.Drain()
}

// QueueLen returns the number of pending actions. Useful for monitoring
// and testing.
func (d *Driver) QueueLen() int {
	return d.queue.Len()
}

// Stop closes the action queue, which causes Run to return after the
// remaining actions are processed.
func (d *Driver) Stop() {
	d.queue.Close()
}

// Run starts the single-writer action loop. Blocks until the context is
// cancelled or Stop has been called and the queue is drained.
//
// All dispatching and session mutation happens in this goroutine; the
// per-kind FIFO ordering guarantee follows directly from the single loop.
func (d *Driver) Run(ctx context.Context) error {
	slog.Info("driver starting", "endpoint", d.cfg.Endpoint)
	defer d.shutdown()

	for {
		a, ok := d.queue.TryDequeue()
		if ok {
			d.dispatch(a)
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("driver stopping: context cancelled")
			d.queue.Close()
			return ctx.Err()

		case <-d.queue.Wait():
			// Signal received - loop back to TryDequeue. The signal
			// channel closes when the queue closes, so this also fires
			// on Stop. Signals coalesce, so a stale one can arrive
			// after the queue was already drained; an empty queue ends
			// the run only once it is closed.
			if d.queue.Closed() && d.queue.Len() == 0 {
				slog.Info("driver stopping: queue closed")
				return nil
			}
		}
	}
}

// shutdown tears down the active session and closes the emitter so the
// output channel can drain and close.
func (d *Driver) shutdown() {
	if d.session != nil {
		d.session.teardown()
		d.session = nil
	}
	d.em.Close()
}

// dispatch routes one action to its handler. The type switch is
// exhaustive over the action sum type; handler failures are logged and
// the loop continues.
func (d *Driver) dispatch(a action.Action) {
	if d.cfg.Debug {
		slog.Debug("dispatching action", "action", a.Kind())
	}

	switch act := a.(type) {
	case action.Login:
		d.handleLogin(act)
	case action.Logout:
		d.handleLogout(act)

	case action.RecordSubscribe:
		d.handleRecordSubscribe(act)
	case action.RecordGet:
		d.handleRecordGet(act)
	case action.RecordSnapshot:
		d.handleRecordSnapshot(act)
	case action.RecordSet:
		d.handleRecordSet(act)
	case action.RecordDelete:
		d.handleRecordDelete(act)
	case action.RecordDiscard:
		d.handleRecordDiscard(act)
	case action.RecordListen:
		d.handleRecordListen(act)

	case action.ListSubscribe:
		d.handleListSubscribe(act)
	case action.ListGetEntries:
		d.handleListGetEntries(act)
	case action.ListSetEntries:
		d.handleListSetEntries(act)
	case action.ListAddEntry:
		d.handleListAddEntry(act)
	case action.ListRemoveEntry:
		d.handleListRemoveEntry(act)
	case action.ListDelete:
		d.handleListDelete(act)
	case action.ListDiscard:
		d.handleListDiscard(act)

	case action.EventSubscribe:
		d.handleEventSubscribe(act)
	case action.EventUnsubscribe:
		d.handleEventUnsubscribe(act)
	case action.EventEmit:
		d.handleEventEmit(act)
	case action.EventListen:
		d.handleEventListen(act)
	case action.EventUnlisten:
		d.handleEventUnlisten(act)

	case action.RPCMake:
		d.handleRPCMake(act)

	case action.PresenceSubscribe:
		d.handlePresenceSubscribe(act)
	case action.PresenceUnsubscribe:
		d.handlePresenceUnsubscribe(act)
	case action.PresenceGetAll:
		d.handlePresenceGetAll(act)

	default:
		slog.Error("unknown action type", "action", a.Kind())
	}
}

// emit forwards one event to the emission channel.
func (d *Driver) emit(ev event.Event) {
	d.em.emit(ev)
}
