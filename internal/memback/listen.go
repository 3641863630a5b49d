package memback

import (
	"regexp"

	"github.com/relaykit/relaykit/internal/backend"
)

// patternListener is one registered pattern provider, for either record
// names or event names. Patterns are regular expressions; an
// uncompilable pattern matches nothing.
type patternListener struct {
	c       *Client
	pattern string
	re      *regexp.Regexp
	fn      backend.ListenFunc
}

func newPatternListener(c *Client, pattern string, fn backend.ListenFunc) *patternListener {
	re, err := regexp.Compile(pattern)
	if err != nil {
		re = nil
	}
	return &patternListener{c: c, pattern: pattern, re: re, fn: fn}
}

func (l *patternListener) matches(name string) bool {
	return l.re != nil && l.re.MatchString(name)
}

// listenResponse records the provider's accept/reject verdict on the
// backend for test introspection.
type listenResponse struct {
	b       *Backend
	pattern string
	name    string
}

func (r *listenResponse) Accept() {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	r.b.accepted[r.pattern+"\x00"+r.name] = true
}

func (r *listenResponse) Reject() {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	r.b.accepted[r.pattern+"\x00"+r.name] = false
}

// notifyListeners fires every live listener in the set whose pattern
// matches name. Caller must not hold b.mu.
func (b *Backend) notifyListeners(set []*patternListener, name string, subscribed bool) {
	b.mu.Lock()
	var fire []*patternListener
	for _, l := range set {
		if l.c.live() && l.matches(name) {
			fire = append(fire, l)
		}
	}
	b.mu.Unlock()

	for _, l := range fire {
		l.fn(name, subscribed, &listenResponse{b: b, pattern: l.pattern, name: name})
	}
}

func removeListener(set []*patternListener, c *Client, pattern string) []*patternListener {
	out := set[:0]
	for _, l := range set {
		if l.c == c && l.pattern == pattern {
			continue
		}
		out = append(out, l)
	}
	return out
}
