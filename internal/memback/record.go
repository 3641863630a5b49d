package memback

import (
	"strings"

	"github.com/relaykit/relaykit/internal/backend"
)

type recordState struct {
	data       any
	subs       []*recordSub
	discardFns []*recordHook
	deleteFns  []*recordHook
	errorFns   []*recordErrHook
}

type recordSub struct {
	owner *Record
	fn    func(data any)
}

type recordHook struct {
	owner *Record
	fn    func()
}

type recordErrHook struct {
	owner *Record
	fn    func(err string)
}

// liveSubs counts subscriptions whose owning client is still open.
func (st *recordState) liveSubs() int {
	n := 0
	for _, s := range st.subs {
		if s.owner.c.live() {
			n++
		}
	}
	return n
}

// Record is a handle to one named record. failMsg is set when handle
// creation was injected to fail; such a handle only ever reports the
// error.
type Record struct {
	c       *Client
	name    string
	failMsg string
}

// Record implements backend.Client.
func (c *Client) Record(name string) backend.Record {
	r := &Record{c: c, name: name}
	c.b.mu.Lock()
	if msg, ok := c.b.failCreate[name]; ok {
		r.failMsg = msg
	} else {
		c.b.ensureRecord(name)
		c.b.recordCreates[name]++
	}
	c.b.mu.Unlock()
	return r
}

// Snapshot implements backend.Client. A record that was never created or
// seeded reports RECORD_NOT_FOUND.
func (c *Client) Snapshot(name string, done func(data any, err string)) {
	if !c.live() {
		return
	}
	c.b.mu.Lock()
	st, ok := c.b.records[name]
	var data any
	if ok {
		data = st.data
	}
	c.b.mu.Unlock()

	if !ok {
		done(nil, "RECORD_NOT_FOUND")
		return
	}
	done(data, "")
}

// ListenRecords implements backend.Client. Names that already have a
// live subscriber and match the pattern are reported immediately.
func (c *Client) ListenRecords(pattern string, fn backend.ListenFunc) {
	if !c.live() {
		return
	}
	l := newPatternListener(c, pattern, fn)

	c.b.mu.Lock()
	c.b.recordListeners = append(c.b.recordListeners, l)
	var existing []string
	for name, st := range c.b.records {
		if st.liveSubs() > 0 && l.matches(name) {
			existing = append(existing, name)
		}
	}
	c.b.mu.Unlock()

	for _, name := range existing {
		fn(name, true, &listenResponse{b: c.b, pattern: pattern, name: name})
	}
}

// UnlistenRecords implements backend.Client.
func (c *Client) UnlistenRecords(pattern string) {
	if !c.live() {
		return
	}
	c.b.mu.Lock()
	c.b.recordListeners = removeListener(c.b.recordListeners, c, pattern)
	c.b.mu.Unlock()
}

// OnReady fires inline: handle creation has no wire round-trip here.
func (r *Record) OnReady(fn func()) {
	if r.failMsg != "" || !r.c.live() {
		return
	}
	fn()
}

// OnError fires inline for an injected creation failure; otherwise the
// callback is kept for later backend-raised errors.
func (r *Record) OnError(fn func(err string)) {
	if !r.c.live() {
		return
	}
	if r.failMsg != "" {
		fn(r.failMsg)
		return
	}
	r.c.b.mu.Lock()
	if st, ok := r.c.b.records[r.name]; ok {
		st.errorFns = append(st.errorFns, &recordErrHook{owner: r, fn: fn})
	}
	r.c.b.mu.Unlock()
}

func (r *Record) Subscribe(triggerNow bool, fn func(data any)) {
	if r.failMsg != "" || !r.c.live() {
		return
	}
	r.c.b.mu.Lock()
	st := r.c.b.ensureRecord(r.name)
	before := st.liveSubs()
	st.subs = append(st.subs, &recordSub{owner: r, fn: fn})
	data := st.data
	r.c.b.mu.Unlock()

	if before == 0 {
		r.c.b.notifyListeners(r.c.b.recordListeners, r.name, true)
	}
	if triggerNow {
		fn(data)
	}
}

func (r *Record) OnDiscard(fn func()) {
	r.addHook(func(st *recordState, h *recordHook) { st.discardFns = append(st.discardFns, h) }, fn)
}

func (r *Record) OnDelete(fn func()) {
	r.addHook(func(st *recordState, h *recordHook) { st.deleteFns = append(st.deleteFns, h) }, fn)
}

func (r *Record) addHook(attach func(*recordState, *recordHook), fn func()) {
	if r.failMsg != "" || !r.c.live() {
		return
	}
	r.c.b.mu.Lock()
	if st, ok := r.c.b.records[r.name]; ok {
		attach(st, &recordHook{owner: r, fn: fn})
	}
	r.c.b.mu.Unlock()
}

func (r *Record) Get() any {
	if r.failMsg != "" || !r.c.live() {
		return nil
	}
	r.c.b.mu.Lock()
	defer r.c.b.mu.Unlock()
	if st, ok := r.c.b.records[r.name]; ok {
		return st.data
	}
	return nil
}

func (r *Record) Set(data any) {
	if r.failMsg != "" || !r.c.live() {
		return
	}
	r.apply(func(st *recordState) { st.data = data })
}

func (r *Record) SetPath(path string, data any) {
	if r.failMsg != "" || !r.c.live() {
		return
	}
	r.apply(func(st *recordState) { st.data = setPath(st.data, path, data) })
}

func (r *Record) SetWithAck(data any, done func(err string)) {
	if r.failMsg != "" || !r.c.live() {
		return
	}
	if msg := r.writeFault(); msg != "" {
		done(msg)
		return
	}
	r.apply(func(st *recordState) { st.data = data })
	done("")
}

func (r *Record) SetPathWithAck(path string, data any, done func(err string)) {
	if r.failMsg != "" || !r.c.live() {
		return
	}
	if msg := r.writeFault(); msg != "" {
		done(msg)
		return
	}
	r.apply(func(st *recordState) { st.data = setPath(st.data, path, data) })
	done("")
}

func (r *Record) writeFault() string {
	r.c.b.mu.Lock()
	defer r.c.b.mu.Unlock()
	return r.c.b.failWrite[r.name]
}

// apply mutates the record under the lock, then notifies every live
// subscriber (all handles, all clients) with the new value.
func (r *Record) apply(mutate func(*recordState)) {
	r.c.b.mu.Lock()
	st := r.c.b.ensureRecord(r.name)
	mutate(st)
	data := st.data
	var fire []func(any)
	for _, s := range st.subs {
		if s.owner.c.live() {
			fire = append(fire, s.fn)
		}
	}
	r.c.b.mu.Unlock()

	for _, fn := range fire {
		fn(data)
	}
}

// UnsubscribeAll detaches everything this handle attached. Dropping the
// record's last live subscriber notifies pattern listeners.
func (r *Record) UnsubscribeAll() {
	if r.failMsg != "" || !r.c.live() {
		return
	}
	r.c.b.mu.Lock()
	st, ok := r.c.b.records[r.name]
	hadSubs := ok && st.liveSubs() > 0
	if ok {
		st.subs = filterRecordSubs(st.subs, r)
		st.discardFns = filterRecordHooks(st.discardFns, r)
		st.deleteFns = filterRecordHooks(st.deleteFns, r)
		st.errorFns = filterRecordErrHooks(st.errorFns, r)
	}
	nowEmpty := ok && st.liveSubs() == 0
	r.c.b.mu.Unlock()

	if hadSubs && nowEmpty {
		r.c.b.notifyListeners(r.c.b.recordListeners, r.name, false)
	}
}

// Discard releases this handle's interest and notifies the record's
// remaining discard hooks.
func (r *Record) Discard() {
	if r.failMsg != "" || !r.c.live() {
		return
	}
	r.c.b.mu.Lock()
	st, ok := r.c.b.records[r.name]
	var fire []func()
	if ok {
		for _, h := range st.discardFns {
			if h.owner != r && h.owner.c.live() {
				fire = append(fire, h.fn)
			}
		}
	}
	r.c.b.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

// Delete destroys the record, notifying remaining delete hooks first.
func (r *Record) Delete() {
	if r.failMsg != "" || !r.c.live() {
		return
	}
	r.c.b.mu.Lock()
	st, ok := r.c.b.records[r.name]
	var fire []func()
	if ok {
		for _, h := range st.deleteFns {
			if h.owner != r && h.owner.c.live() {
				fire = append(fire, h.fn)
			}
		}
		delete(r.c.b.records, r.name)
	}
	r.c.b.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

// InjectRecordError fires the record's registered error callbacks. Test
// hook.
func (b *Backend) InjectRecordError(name, msg string) {
	b.mu.Lock()
	st, ok := b.records[name]
	var fire []func(string)
	if ok {
		for _, h := range st.errorFns {
			if h.owner.c.live() {
				fire = append(fire, h.fn)
			}
		}
	}
	b.mu.Unlock()

	for _, fn := range fire {
		fn(msg)
	}
}

func filterRecordSubs(subs []*recordSub, owner *Record) []*recordSub {
	out := subs[:0]
	for _, s := range subs {
		if s.owner != owner {
			out = append(out, s)
		}
	}
	return out
}

func filterRecordHooks(hooks []*recordHook, owner *Record) []*recordHook {
	out := hooks[:0]
	for _, h := range hooks {
		if h.owner != owner {
			out = append(out, h)
		}
	}
	return out
}

func filterRecordErrHooks(hooks []*recordErrHook, owner *Record) []*recordErrHook {
	out := hooks[:0]
	for _, h := range hooks {
		if h.owner != owner {
			out = append(out, h)
		}
	}
	return out
}

// setPath writes a value at a dot-separated path, materializing
// intermediate maps. A non-map root is replaced.
func setPath(root any, path string, v any) any {
	m, ok := root.(map[string]any)
	if !ok {
		m = map[string]any{}
	}
	parts := strings.Split(path, ".")
	cur := m
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[p] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = v
	return m
}
