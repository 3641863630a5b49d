package driver

import (
	"sync"

	"github.com/relaykit/relaykit/internal/backend"
)

// subscriptionRegistry tracks attached backend subscriptions so that
// unsubscribe detaches exactly what subscribe attached.
//
// The backend detaches listeners by opaque Subscription token, so the
// registry stores the token handed back at attach time instead of relying
// on memoized-function identity. Pub/sub subscriptions are keyed by entity
// identity; presence subscriptions by scope alone.
//
// A second subscribe for an identity that is already attached is a no-op
// at the registry level (attach reports false), which keeps listener
// counts at most one per identity.
//
// Thread-safety: all methods are safe for concurrent use.
type subscriptionRegistry struct {
	mu       sync.Mutex
	events   map[Identity]backend.Subscription
	presence map[string]backend.Subscription
}

func newSubscriptionRegistry() *subscriptionRegistry {
	return &subscriptionRegistry{
		events:   make(map[Identity]backend.Subscription),
		presence: make(map[string]backend.Subscription),
	}
}

// attachEvent records the token for an event subscription.
// Returns false (and does not record) if the identity is already attached.
func (r *subscriptionRegistry) attachEvent(id Identity, sub backend.Subscription) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[id]; ok {
		return false
	}
	r.events[id] = sub
	return true
}

// hasEvent reports whether the identity has an attached subscription.
func (r *subscriptionRegistry) hasEvent(id Identity) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.events[id]
	return ok
}

// takeEvent removes and returns the token for an event subscription.
func (r *subscriptionRegistry) takeEvent(id Identity) (backend.Subscription, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.events[id]
	if ok {
		delete(r.events, id)
	}
	return sub, ok
}

// attachPresence records the token for a per-scope presence subscription.
// Returns false if the scope is already attached.
func (r *subscriptionRegistry) attachPresence(scope string, sub backend.Subscription) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.presence[scope]; ok {
		return false
	}
	r.presence[scope] = sub
	return true
}

// hasPresence reports whether the scope has an attached subscription.
func (r *subscriptionRegistry) hasPresence(scope string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.presence[scope]
	return ok
}

// takePresence removes and returns the token for a presence subscription.
func (r *subscriptionRegistry) takePresence(scope string) (backend.Subscription, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.presence[scope]
	if ok {
		delete(r.presence, scope)
	}
	return sub, ok
}

// reset drops all recorded tokens. The owning client is being closed, so
// the tokens could only ever detach from a dead client.
func (r *subscriptionRegistry) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = make(map[Identity]backend.Subscription)
	r.presence = make(map[string]backend.Subscription)
}
