package driver

import (
	"log/slog"

	"github.com/relaykit/relaykit/internal/action"
	"github.com/relaykit/relaykit/internal/backend"
	"github.com/relaykit/relaykit/internal/event"
)

// session bundles one backend client with the caches that depend on it.
// Sessions are replaced wholesale on login/logout - handlers receive the
// whole object and never observe a client paired with another session's
// caches.
type session struct {
	client  backend.Client
	token   string
	records *handleCache[backend.Record]
	lists   *handleCache[backend.List]
	subs    *subscriptionRegistry
}

// teardown invalidates the session: caches reset first (failing any
// pending handle resolutions), then the client closes. The ordering
// guarantees no handler resolves a handle against a client that is about
// to close underneath it.
func (s *session) teardown() {
	s.records.reset()
	s.lists.reset()
	s.subs.reset()
	if s.client != nil {
		s.client.Close()
	}
}

// handleLogin tears down any prior session, establishes a new client,
// wires client-level forwarders, and issues the login call. Exactly one
// of login.success / login.failure is emitted, decided by the backend's
// success flag.
func (d *Driver) handleLogin(a action.Login) {
	if d.session != nil {
		slog.Info("superseding active session", "token", d.session.token)
		d.session.teardown()
		d.session = nil
	}

	client, err := d.cfg.Dialer.Dial(d.cfg.Endpoint, d.cfg.Options)
	if err != nil {
		slog.Error("backend dial failed", "endpoint", d.cfg.Endpoint, "error", err)
		d.emit(event.Event{Kind: event.LoginFailure, Scope: a.Scope, Error: err.Error()})
		return
	}

	s := &session{
		client:  client,
		token:   d.tokens.Generate(),
		records: newHandleCache[backend.Record](),
		lists:   newHandleCache[backend.List](),
		subs:    newSubscriptionRegistry(),
	}
	d.session = s

	scope := a.Scope
	client.OnError(func(msg string) {
		d.emit(event.Event{Kind: event.ClientError, Scope: scope, Error: msg})
	})
	client.OnConnectionState(func(state string) {
		d.emit(event.Event{Kind: event.ConnectionState, Scope: scope, State: state})
	})

	slog.Info("session established", "token", s.token, "endpoint", d.cfg.Endpoint)

	client.Login(a.Auth, func(res backend.LoginResult) {
		if res.Success {
			d.emit(event.Event{Kind: event.LoginSuccess, Scope: scope, Data: res.Data})
		} else {
			d.emit(event.Event{Kind: event.LoginFailure, Scope: scope, Data: res.Data})
		}
	})
}

// handleLogout tears down the session, if any, and always emits logout.
func (d *Driver) handleLogout(a action.Logout) {
	if d.session != nil {
		slog.Info("session closed", "token", d.session.token)
		d.session.teardown()
		d.session = nil
	}
	d.emit(event.Event{Kind: event.Logout, Scope: a.Scope})
}

// current returns the active session, or nil when no login has succeeded
// in establishing a client. Only the Run loop calls it.
func (d *Driver) current(kind string) *session {
	if d.session == nil {
		slog.Debug("action dropped: no active session", "action", kind)
		return nil
	}
	return d.session
}
