package memback

import "github.com/relaykit/relaykit/internal/backend"

type presenceSub struct {
	token backend.Subscription
	c     *Client
	fn    func(username string, online bool)
}

// presence is the per-client view of the backend-wide roster.
type presence struct {
	c *Client
}

func (p *presence) Subscribe(fn func(username string, online bool)) backend.Subscription {
	if !p.c.live() {
		return 0
	}
	b := p.c.b
	b.mu.Lock()
	tok := b.token()
	b.presenceSubs = append(b.presenceSubs, &presenceSub{token: tok, c: p.c, fn: fn})
	b.mu.Unlock()
	return tok
}

func (p *presence) Unsubscribe(sub backend.Subscription) {
	if !p.c.live() {
		return
	}
	b := p.c.b
	b.mu.Lock()
	out := b.presenceSubs[:0]
	for _, s := range b.presenceSubs {
		if s.token != sub {
			out = append(out, s)
		}
	}
	b.presenceSubs = out
	b.mu.Unlock()
}

func (p *presence) GetAll(done func(clients []string)) {
	if !p.c.live() {
		return
	}
	b := p.c.b
	b.mu.Lock()
	roster := append([]string(nil), b.roster...)
	b.mu.Unlock()
	done(roster)
}

// Join adds a user to the roster and notifies live presence
// subscribers. No-op if already present.
func (b *Backend) Join(username string) {
	b.mu.Lock()
	for _, u := range b.roster {
		if u == username {
			b.mu.Unlock()
			return
		}
	}
	b.roster = append(b.roster, username)
	fire := b.livePresenceSubs()
	b.mu.Unlock()

	for _, fn := range fire {
		fn(username, true)
	}
}

// Leave removes a user from the roster and notifies live presence
// subscribers. No-op if absent.
func (b *Backend) Leave(username string) {
	b.mu.Lock()
	at := -1
	for i, u := range b.roster {
		if u == username {
			at = i
			break
		}
	}
	if at < 0 {
		b.mu.Unlock()
		return
	}
	b.roster = append(b.roster[:at], b.roster[at+1:]...)
	fire := b.livePresenceSubs()
	b.mu.Unlock()

	for _, fn := range fire {
		fn(username, false)
	}
}

func (b *Backend) livePresenceSubs() []func(string, bool) {
	var fire []func(string, bool)
	for _, s := range b.presenceSubs {
		if s.c.live() {
			fire = append(fire, s.fn)
		}
	}
	return fire
}
