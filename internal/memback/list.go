package memback

import "github.com/relaykit/relaykit/internal/backend"

type listState struct {
	entries    []string
	subs       []*listSub
	addedFns   []*entryHook
	movedFns   []*entryHook
	removedFns []*entryHook
	discardFns []*listHook
	deleteFns  []*listHook
	errorFns   []*listErrHook
}

type listSub struct {
	owner *List
	fn    func(entries []string)
}

type entryHook struct {
	owner *List
	fn    func(entry string, index int)
}

type listHook struct {
	owner *List
	fn    func()
}

type listErrHook struct {
	owner *List
	fn    func(err string)
}

// List is a handle to one named ordered collection. Same ready/error
// protocol as Record.
type List struct {
	c       *Client
	name    string
	failMsg string
}

// List implements backend.Client.
func (c *Client) List(name string) backend.List {
	l := &List{c: c, name: name}
	c.b.mu.Lock()
	if msg, ok := c.b.failCreate[name]; ok {
		l.failMsg = msg
	} else {
		c.b.ensureList(name)
		c.b.listCreates[name]++
	}
	c.b.mu.Unlock()
	return l
}

func (l *List) OnReady(fn func()) {
	if l.failMsg != "" || !l.c.live() {
		return
	}
	fn()
}

func (l *List) OnError(fn func(err string)) {
	if !l.c.live() {
		return
	}
	if l.failMsg != "" {
		fn(l.failMsg)
		return
	}
	l.c.b.mu.Lock()
	if st, ok := l.c.b.lists[l.name]; ok {
		st.errorFns = append(st.errorFns, &listErrHook{owner: l, fn: fn})
	}
	l.c.b.mu.Unlock()
}

// Subscribe fires immediately with the current entries, then again after
// each mutation.
func (l *List) Subscribe(fn func(entries []string)) {
	if l.failMsg != "" || !l.c.live() {
		return
	}
	l.c.b.mu.Lock()
	st := l.c.b.ensureList(l.name)
	st.subs = append(st.subs, &listSub{owner: l, fn: fn})
	entries := append([]string(nil), st.entries...)
	l.c.b.mu.Unlock()

	fn(entries)
}

func (l *List) OnDiscard(fn func()) {
	l.addHook(func(st *listState, h *listHook) { st.discardFns = append(st.discardFns, h) }, fn)
}

func (l *List) OnDelete(fn func()) {
	l.addHook(func(st *listState, h *listHook) { st.deleteFns = append(st.deleteFns, h) }, fn)
}

func (l *List) addHook(attach func(*listState, *listHook), fn func()) {
	if l.failMsg != "" || !l.c.live() {
		return
	}
	l.c.b.mu.Lock()
	if st, ok := l.c.b.lists[l.name]; ok {
		attach(st, &listHook{owner: l, fn: fn})
	}
	l.c.b.mu.Unlock()
}

func (l *List) OnEntryAdded(fn func(entry string, index int)) {
	l.addEntryHook(func(st *listState, h *entryHook) { st.addedFns = append(st.addedFns, h) }, fn)
}

func (l *List) OnEntryMoved(fn func(entry string, index int)) {
	l.addEntryHook(func(st *listState, h *entryHook) { st.movedFns = append(st.movedFns, h) }, fn)
}

func (l *List) OnEntryRemoved(fn func(entry string, index int)) {
	l.addEntryHook(func(st *listState, h *entryHook) { st.removedFns = append(st.removedFns, h) }, fn)
}

func (l *List) addEntryHook(attach func(*listState, *entryHook), fn func(string, int)) {
	if l.failMsg != "" || !l.c.live() {
		return
	}
	l.c.b.mu.Lock()
	if st, ok := l.c.b.lists[l.name]; ok {
		attach(st, &entryHook{owner: l, fn: fn})
	}
	l.c.b.mu.Unlock()
}

func (l *List) Entries() []string {
	if l.failMsg != "" || !l.c.live() {
		return nil
	}
	l.c.b.mu.Lock()
	defer l.c.b.mu.Unlock()
	if st, ok := l.c.b.lists[l.name]; ok {
		return append([]string(nil), st.entries...)
	}
	return nil
}

func (l *List) SetEntries(entries []string) {
	if l.failMsg != "" || !l.c.live() {
		return
	}
	l.mutate(func(st *listState) []entryEvent {
		st.entries = append([]string(nil), entries...)
		return nil
	})
}

// AddEntry inserts the entry, at the index hint when given. Adding an
// entry that is already present together with an index moves it instead.
func (l *List) AddEntry(entry string, index *int) {
	if l.failMsg != "" || !l.c.live() {
		return
	}
	l.mutate(func(st *listState) []entryEvent {
		cur := indexOf(st.entries, entry)
		if cur >= 0 && index != nil {
			at := clampIndex(*index, len(st.entries)-1)
			st.entries = append(st.entries[:cur], st.entries[cur+1:]...)
			st.entries = insertAt(st.entries, entry, at)
			return []entryEvent{{kind: entryMoved, entry: entry, index: at}}
		}
		at := len(st.entries)
		if index != nil {
			at = clampIndex(*index, len(st.entries))
		}
		st.entries = insertAt(st.entries, entry, at)
		return []entryEvent{{kind: entryAdded, entry: entry, index: at}}
	})
}

// RemoveEntry removes the entry. The index hint is honored when it
// points at a matching occurrence; otherwise the first occurrence goes.
func (l *List) RemoveEntry(entry string, index *int) {
	if l.failMsg != "" || !l.c.live() {
		return
	}
	l.mutate(func(st *listState) []entryEvent {
		at := -1
		if index != nil && *index >= 0 && *index < len(st.entries) && st.entries[*index] == entry {
			at = *index
		} else {
			at = indexOf(st.entries, entry)
		}
		if at < 0 {
			return nil
		}
		st.entries = append(st.entries[:at], st.entries[at+1:]...)
		return []entryEvent{{kind: entryRemoved, entry: entry, index: at}}
	})
}

type entryEventKind int

const (
	entryAdded entryEventKind = iota
	entryMoved
	entryRemoved
)

type entryEvent struct {
	kind  entryEventKind
	entry string
	index int
}

// mutate applies the change under the lock, then fires entry-level hooks
// followed by the entries subscribers, all with live-client filtering.
func (l *List) mutate(apply func(*listState) []entryEvent) {
	l.c.b.mu.Lock()
	st := l.c.b.ensureList(l.name)
	events := apply(st)
	entries := append([]string(nil), st.entries...)

	var entryFire []func()
	for _, ev := range events {
		var hooks []*entryHook
		switch ev.kind {
		case entryAdded:
			hooks = st.addedFns
		case entryMoved:
			hooks = st.movedFns
		case entryRemoved:
			hooks = st.removedFns
		}
		for _, h := range hooks {
			if h.owner.c.live() {
				ev := ev
				fn := h.fn
				entryFire = append(entryFire, func() { fn(ev.entry, ev.index) })
			}
		}
	}
	var subFire []func([]string)
	for _, s := range st.subs {
		if s.owner.c.live() {
			subFire = append(subFire, s.fn)
		}
	}
	l.c.b.mu.Unlock()

	for _, fn := range entryFire {
		fn()
	}
	for _, fn := range subFire {
		fn(entries)
	}
}

func (l *List) UnsubscribeAll() {
	if l.failMsg != "" || !l.c.live() {
		return
	}
	l.c.b.mu.Lock()
	if st, ok := l.c.b.lists[l.name]; ok {
		st.subs = filterListSubs(st.subs, l)
		st.addedFns = filterEntryHooks(st.addedFns, l)
		st.movedFns = filterEntryHooks(st.movedFns, l)
		st.removedFns = filterEntryHooks(st.removedFns, l)
		st.discardFns = filterListHooks(st.discardFns, l)
		st.deleteFns = filterListHooks(st.deleteFns, l)
		st.errorFns = filterListErrHooks(st.errorFns, l)
	}
	l.c.b.mu.Unlock()
}

// Discard releases this handle's interest, notifying remaining discard
// hooks.
func (l *List) Discard() {
	if l.failMsg != "" || !l.c.live() {
		return
	}
	l.c.b.mu.Lock()
	st, ok := l.c.b.lists[l.name]
	var fire []func()
	if ok {
		for _, h := range st.discardFns {
			if h.owner != l && h.owner.c.live() {
				fire = append(fire, h.fn)
			}
		}
	}
	l.c.b.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

// Delete destroys the list, notifying remaining delete hooks first.
func (l *List) Delete() {
	if l.failMsg != "" || !l.c.live() {
		return
	}
	l.c.b.mu.Lock()
	st, ok := l.c.b.lists[l.name]
	var fire []func()
	if ok {
		for _, h := range st.deleteFns {
			if h.owner != l && h.owner.c.live() {
				fire = append(fire, h.fn)
			}
		}
		delete(l.c.b.lists, l.name)
	}
	l.c.b.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

func indexOf(entries []string, entry string) int {
	for i, e := range entries {
		if e == entry {
			return i
		}
	}
	return -1
}

func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

func insertAt(entries []string, entry string, at int) []string {
	entries = append(entries, "")
	copy(entries[at+1:], entries[at:])
	entries[at] = entry
	return entries
}

func filterListSubs(subs []*listSub, owner *List) []*listSub {
	out := subs[:0]
	for _, s := range subs {
		if s.owner != owner {
			out = append(out, s)
		}
	}
	return out
}

func filterEntryHooks(hooks []*entryHook, owner *List) []*entryHook {
	out := hooks[:0]
	for _, h := range hooks {
		if h.owner != owner {
			out = append(out, h)
		}
	}
	return out
}

func filterListHooks(hooks []*listHook, owner *List) []*listHook {
	out := hooks[:0]
	for _, h := range hooks {
		if h.owner != owner {
			out = append(out, h)
		}
	}
	return out
}

func filterListErrHooks(hooks []*listErrHook, owner *List) []*listErrHook {
	out := hooks[:0]
	for _, h := range hooks {
		if h.owner != owner {
			out = append(out, h)
		}
	}
	return out
}
