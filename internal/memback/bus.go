package memback

import "github.com/relaykit/relaykit/internal/backend"

type eventSub struct {
	token backend.Subscription
	c     *Client
	fn    func(data any)
}

// eventBus is the per-client view of the backend-wide pub/sub state.
type eventBus struct {
	c *Client
}

// Subscribe attaches a named-event listener and returns its token.
// Gaining the name's first live subscriber notifies pattern listeners.
func (e *eventBus) Subscribe(name string, fn func(data any)) backend.Subscription {
	if !e.c.live() {
		return 0
	}
	b := e.c.b
	b.mu.Lock()
	before := liveEventSubs(b.eventSubs[name])
	tok := b.token()
	b.eventSubs[name] = append(b.eventSubs[name], &eventSub{token: tok, c: e.c, fn: fn})
	b.mu.Unlock()

	if before == 0 {
		b.notifyListeners(b.eventListeners, name, true)
	}
	return tok
}

// Unsubscribe detaches exactly the tokened listener. Losing the name's
// last live subscriber notifies pattern listeners.
func (e *eventBus) Unsubscribe(name string, sub backend.Subscription) {
	if !e.c.live() {
		return
	}
	b := e.c.b
	b.mu.Lock()
	subs := b.eventSubs[name]
	hadSubs := liveEventSubs(subs) > 0
	out := subs[:0]
	for _, s := range subs {
		if s.token != sub {
			out = append(out, s)
		}
	}
	b.eventSubs[name] = out
	nowEmpty := liveEventSubs(out) == 0
	b.mu.Unlock()

	if hadSubs && nowEmpty {
		b.notifyListeners(b.eventListeners, name, false)
	}
}

// Emit delivers to every live subscriber of the name, in subscription
// order.
func (e *eventBus) Emit(name string, data any) {
	if !e.c.live() {
		return
	}
	b := e.c.b
	b.mu.Lock()
	var fire []func(any)
	for _, s := range b.eventSubs[name] {
		if s.c.live() {
			fire = append(fire, s.fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range fire {
		fn(data)
	}
}

// Listen registers a pattern provider for event names. Names that
// already have a live subscriber and match are reported immediately.
func (e *eventBus) Listen(pattern string, fn backend.ListenFunc) {
	if !e.c.live() {
		return
	}
	b := e.c.b
	l := newPatternListener(e.c, pattern, fn)

	b.mu.Lock()
	b.eventListeners = append(b.eventListeners, l)
	var existing []string
	for name, subs := range b.eventSubs {
		if liveEventSubs(subs) > 0 && l.matches(name) {
			existing = append(existing, name)
		}
	}
	b.mu.Unlock()

	for _, name := range existing {
		fn(name, true, &listenResponse{b: b, pattern: pattern, name: name})
	}
}

func (e *eventBus) Unlisten(pattern string) {
	if !e.c.live() {
		return
	}
	b := e.c.b
	b.mu.Lock()
	b.eventListeners = removeListener(b.eventListeners, e.c, pattern)
	b.mu.Unlock()
}

func liveEventSubs(subs []*eventSub) int {
	n := 0
	for _, s := range subs {
		if s.c.live() {
			n++
		}
	}
	return n
}
