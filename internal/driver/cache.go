package driver

import "sync"

// Identity is the composite cache key for backend entities. Two actions
// naming the same record under different scopes address logically distinct
// cached handles; keying on the struct (not a concatenated string) means
// scope values can never collide with name characters.
type Identity struct {
	Name  string
	Scope string
}

// startFunc creates a backend handle for an identity and wires its
// lifecycle callbacks. Implementations must call exactly one of ready or
// fail, and may do so synchronously before returning.
type startFunc[H any] func(ready func(H), fail func(backendErr string))

// handleCache maps entity identities to live backend handles.
//
// Resolution is single-flight per identity: the first resolve for an
// uncached identity issues the backend creation call, and every resolve
// that arrives before the handle is ready joins the same pending set. All
// waiters complete together - with the handle on ready, or with an
// ENTITY_FAILED error if the backend reports one first. The handle is
// cached on ready and the same instance is returned for the identity until
// it is explicitly evicted by a delete/discard operation.
//
// The cache is bound to one session. reset fails every pending waiter with
// SESSION_CLOSED and marks the cache dead, so a ready callback arriving
// after the owning client was closed can never re-populate state for a
// superseded session.
//
// Thread-safety: all methods are safe for concurrent use. Waiter callbacks
// run outside the lock (re-entrant resolves from a completion are fine).
type handleCache[H any] struct {
	mu      sync.Mutex
	handles map[Identity]H
	pending map[Identity][]func(H, error)
	closed  bool
}

func newHandleCache[H any]() *handleCache[H] {
	return &handleCache[H]{
		handles: make(map[Identity]H),
		pending: make(map[Identity][]func(H, error)),
	}
}

// resolve delivers the cached handle for id, or creates it via start.
// done is invoked exactly once - synchronously when the handle is already
// cached, otherwise from the backend's ready/error callback.
func (c *handleCache[H]) resolve(id Identity, start startFunc[H], done func(H, error)) {
	var zero H

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		done(zero, newSessionClosedError(id))
		return
	}
	if h, ok := c.handles[id]; ok {
		c.mu.Unlock()
		done(h, nil)
		return
	}
	if waiters, ok := c.pending[id]; ok {
		// Creation already in flight - join it.
		c.pending[id] = append(waiters, done)
		c.mu.Unlock()
		return
	}
	c.pending[id] = []func(H, error){done}
	c.mu.Unlock()

	start(
		func(h H) {
			waiters, dead := c.takePending(id, h, true)
			for _, w := range waiters {
				if dead {
					w(zero, newSessionClosedError(id))
				} else {
					w(h, nil)
				}
			}
		},
		func(backendErr string) {
			waiters, _ := c.takePending(id, zero, false)
			err := newEntityError(id, backendErr)
			for _, w := range waiters {
				w(zero, err)
			}
		},
	)
}

// takePending removes and returns the pending waiter set for id, caching
// the handle when the creation succeeded on a live cache. The returned
// bool reports whether the cache was already reset (waiters must then be
// failed, not resolved). A second ready/error callback for the same
// identity finds no waiters and is a no-op.
func (c *handleCache[H]) takePending(id Identity, h H, cache bool) ([]func(H, error), bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	waiters, ok := c.pending[id]
	if !ok {
		return nil, c.closed
	}
	delete(c.pending, id)

	if c.closed {
		return waiters, true
	}
	if cache {
		c.handles[id] = h
	}
	return waiters, false
}

// evict removes the identity from the cache. Called exactly when a delete
// or discard completes for that identity.
func (c *handleCache[H]) evict(id Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handles, id)
}

// len reports the number of cached handles. Used for testing.
func (c *handleCache[H]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handles)
}

// reset fails all pending resolutions with SESSION_CLOSED, clears the
// cache, and marks it dead. Called when the owning session is torn down.
func (c *handleCache[H]) reset() {
	var zero H

	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[Identity][]func(H, error))
	c.handles = make(map[Identity]H)
	c.closed = true
	c.mu.Unlock()

	for id, waiters := range pending {
		err := newSessionClosedError(id)
		for _, w := range waiters {
			w(zero, err)
		}
	}
}
