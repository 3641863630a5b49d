package driver

import (
	"log/slog"

	"github.com/relaykit/relaykit/internal/action"
	"github.com/relaykit/relaykit/internal/event"
)

// handlePresenceSubscribe attaches the per-scope presence listener. Like
// pub/sub subscriptions, a scope holds at most one listener.
func (d *Driver) handlePresenceSubscribe(a action.PresenceSubscribe) {
	s := d.current(action.KindPresenceSubscribe)
	if s == nil {
		return
	}

	if s.subs.hasPresence(a.Scope) {
		slog.Debug("presence subscribe dropped: already attached", "scope", a.Scope)
		return
	}

	scope := a.Scope
	sub := s.client.Presence().Subscribe(func(username string, online bool) {
		d.emit(event.Event{Kind: event.PresenceEvent, Scope: scope, Username: username, IsOnline: online})
	})
	if !s.subs.attachPresence(a.Scope, sub) {
		s.client.Presence().Unsubscribe(sub)
	}
}

// handlePresenceUnsubscribe detaches the recorded per-scope listener.
func (d *Driver) handlePresenceUnsubscribe(a action.PresenceUnsubscribe) {
	s := d.current(action.KindPresenceUnsubscribe)
	if s == nil {
		return
	}

	sub, ok := s.subs.takePresence(a.Scope)
	if !ok {
		slog.Debug("presence unsubscribe dropped: not attached", "scope", a.Scope)
		return
	}
	s.client.Presence().Unsubscribe(sub)
}

// handlePresenceGetAll emits the current client list.
func (d *Driver) handlePresenceGetAll(a action.PresenceGetAll) {
	s := d.current(action.KindPresenceGetAll)
	if s == nil {
		return
	}

	s.client.Presence().GetAll(func(clients []string) {
		d.emit(event.Event{Kind: event.PresenceGetAll, Scope: a.Scope, Data: clients})
	})
}
