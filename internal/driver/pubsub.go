package driver

import (
	"log/slog"

	"github.com/relaykit/relaykit/internal/action"
	"github.com/relaykit/relaykit/internal/backend"
	"github.com/relaykit/relaykit/internal/event"
)

// handleEventSubscribe attaches a pub/sub listener and records its
// subscription token under the (name, scope) identity. A duplicate
// subscribe for an already-attached identity is dropped so the identity
// never holds more than one listener.
func (d *Driver) handleEventSubscribe(a action.EventSubscribe) {
	s := d.current(action.KindEventSubscribe)
	if s == nil {
		return
	}

	id := Identity{Name: a.Name, Scope: a.Scope}
	if s.subs.hasEvent(id) {
		slog.Debug("event subscribe dropped: already attached", "name", a.Name, "scope", a.Scope)
		return
	}

	sub := s.client.Events().Subscribe(a.Name, func(data any) {
		d.emit(event.Event{Kind: event.EventEmit, Name: a.Name, Scope: a.Scope, Data: data})
	})
	if !s.subs.attachEvent(id, sub) {
		// Lost a race with another attach for the same identity.
		s.client.Events().Unsubscribe(a.Name, sub)
	}
}

// handleEventUnsubscribe detaches exactly the subscription token that
// subscribe recorded for the identity. Without a recorded token there is
// nothing to detach.
func (d *Driver) handleEventUnsubscribe(a action.EventUnsubscribe) {
	s := d.current(action.KindEventUnsubscribe)
	if s == nil {
		return
	}

	id := Identity{Name: a.Name, Scope: a.Scope}
	sub, ok := s.subs.takeEvent(id)
	if !ok {
		slog.Debug("event unsubscribe dropped: not attached", "name", a.Name, "scope", a.Scope)
		return
	}
	s.client.Events().Unsubscribe(a.Name, sub)
}

// handleEventEmit publishes a fire-and-forget name/payload pair.
func (d *Driver) handleEventEmit(a action.EventEmit) {
	s := d.current(action.KindEventEmit)
	if s == nil {
		return
	}
	s.client.Events().Emit(a.Name, a.Data)
}

// handleEventListen registers a pattern provider for event names,
// auto-accepting subscriptions that request one.
func (d *Driver) handleEventListen(a action.EventListen) {
	s := d.current(action.KindEventListen)
	if s == nil {
		return
	}

	s.client.Events().Listen(a.Pattern, func(match string, isSubscribed bool, resp backend.ListenResponse) {
		if isSubscribed {
			resp.Accept()
		}
		d.emit(event.Event{Kind: event.EventListen, Scope: a.Scope, Match: match, IsSubscribed: isSubscribed})
	})
}

// handleEventUnlisten removes a pattern provider registration.
func (d *Driver) handleEventUnlisten(a action.EventUnlisten) {
	s := d.current(action.KindEventUnlisten)
	if s == nil {
		return
	}
	s.client.Events().Unlisten(a.Pattern)
}
