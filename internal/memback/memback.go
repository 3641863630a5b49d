// Package memback is an in-memory implementation of the backend
// capability set.
//
// It backs the test suite, the scenario harness, and the CLI replay
// command. State (records, lists, event subscribers, presence roster, RPC
// providers) lives on the Backend and survives across Dial calls, like a
// server surviving client reconnects; each Dial produces an independent
// Client view.
//
// Dispatch is synchronous and deterministic: callbacks fire inline on the
// calling goroutine, in registration order, which makes event transcripts
// byte-stable for golden comparison. Closing a client invalidates it -
// callbacks registered through a closed client never fire again and its
// calls become no-ops.
//
// Fault injection (FailEntity, FailWrite, failing RPC providers,
// RejectLogin) exists so error paths are as testable as happy paths.
package memback

import (
	"sync"
	"sync/atomic"

	"github.com/relaykit/relaykit/internal/backend"
)

// Backend holds the shared in-memory state behind every dialed client.
type Backend struct {
	mu sync.Mutex

	records map[string]*recordState
	lists   map[string]*listState

	eventSubs       map[string][]*eventSub
	eventListeners  []*patternListener
	recordListeners []*patternListener

	roster       []string
	presenceSubs []*presenceSub

	rpcProviders map[string]RPCHandler

	// Fault injection.
	failCreate  map[string]string
	failWrite   map[string]string
	rejectLogin bool
	loginData   any

	// Introspection counters for tests.
	dials         int
	clients       []*Client
	recordCreates map[string]int
	listCreates   map[string]int

	nextToken uint64
	// accepted tracks pattern-listen accept/reject decisions by
	// "pattern\x00name".
	accepted map[string]bool
}

// RPCHandler serves one remote procedure. Exactly one of result or err
// should be meaningful.
type RPCHandler func(data any) (result any, err string)

// New creates an empty Backend with the built-in "add" RPC provider
// registered.
func New() *Backend {
	b := &Backend{
		records:       make(map[string]*recordState),
		lists:         make(map[string]*listState),
		eventSubs:     make(map[string][]*eventSub),
		rpcProviders:  make(map[string]RPCHandler),
		failCreate:    make(map[string]string),
		failWrite:     make(map[string]string),
		recordCreates: make(map[string]int),
		listCreates:   make(map[string]int),
		accepted:      make(map[string]bool),
	}
	b.rpcProviders["add"] = addHandler
	return b
}

// Dial implements backend.Dialer. The endpoint and options are accepted
// and ignored - there is no wire.
func (b *Backend) Dial(endpoint string, opts backend.Options) (backend.Client, error) {
	c := &Client{b: b}
	b.mu.Lock()
	b.dials++
	b.clients = append(b.clients, c)
	b.mu.Unlock()
	return c, nil
}

// SeedRecord sets a record's value without notifying anyone.
func (b *Backend) SeedRecord(name string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ensureRecord(name).data = data
}

// SeedList sets a list's entries without notifying anyone.
func (b *Backend) SeedList(name string, entries []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ensureList(name).entries = append([]string(nil), entries...)
}

// SeedPresence populates the roster without notifying subscribers.
func (b *Backend) SeedPresence(users ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.roster = append(b.roster, users...)
}

// FailEntity makes handle creation for the named record or list report
// the given error instead of becoming ready.
func (b *Backend) FailEntity(name, errMsg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failCreate[name] = errMsg
}

// FailWrite makes acknowledged writes to the named record report the
// given error without mutating the value.
func (b *Backend) FailWrite(name, errMsg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failWrite[name] = errMsg
}

// RejectLogin makes every login fail, answering with the given data.
func (b *Backend) RejectLogin(data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rejectLogin = true
	b.loginData = data
}

// ProvideRPC registers (or replaces) a remote procedure.
func (b *Backend) ProvideRPC(method string, h RPCHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rpcProviders[method] = h
}

// Dials reports how many clients have been dialed.
func (b *Backend) Dials() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dials
}

// LastClient returns the most recently dialed client, or nil. Test hook
// for injecting client-level signals.
func (b *Backend) LastClient() *Client {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.clients) == 0 {
		return nil
	}
	return b.clients[len(b.clients)-1]
}

// RecordCreates reports how many handles were created for the record.
func (b *Backend) RecordCreates(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.recordCreates[name]
}

// ListCreates reports how many handles were created for the list.
func (b *Backend) ListCreates(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listCreates[name]
}

// ListenAccepted reports whether a pattern listener accepted the name.
func (b *Backend) ListenAccepted(pattern, name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accepted[pattern+"\x00"+name]
}

func (b *Backend) ensureRecord(name string) *recordState {
	st, ok := b.records[name]
	if !ok {
		st = &recordState{data: map[string]any{}}
		b.records[name] = st
	}
	return st
}

func (b *Backend) ensureList(name string) *listState {
	st, ok := b.lists[name]
	if !ok {
		st = &listState{}
		b.lists[name] = st
	}
	return st
}

func (b *Backend) token() backend.Subscription {
	b.nextToken++
	return backend.Subscription(b.nextToken)
}

// Client is one dialed view of the Backend.
type Client struct {
	b      *Backend
	closed atomic.Bool

	mu       sync.Mutex
	errFns   []func(string)
	stateFns []func(string)
}

func (c *Client) live() bool { return !c.closed.Load() }

// Login answers synchronously with the backend's configured verdict.
func (c *Client) Login(auth map[string]any, done func(backend.LoginResult)) {
	if !c.live() {
		return
	}
	c.b.mu.Lock()
	reject := c.b.rejectLogin
	data := c.b.loginData
	c.b.mu.Unlock()

	if reject {
		done(backend.LoginResult{Success: false, Data: data})
		return
	}
	done(backend.LoginResult{Success: true, Data: data})
}

// Close invalidates the client. Callbacks registered through it never
// fire again; subsequent calls are no-ops.
func (c *Client) Close() {
	c.closed.Store(true)
}

func (c *Client) OnError(fn func(err string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errFns = append(c.errFns, fn)
}

func (c *Client) OnConnectionState(fn func(state string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stateFns = append(c.stateFns, fn)
}

// InjectError fires the client-level error callbacks. Test hook.
func (c *Client) InjectError(msg string) {
	if !c.live() {
		return
	}
	c.mu.Lock()
	fns := append([]func(string){}, c.errFns...)
	c.mu.Unlock()
	for _, fn := range fns {
		fn(msg)
	}
}

// SetConnectionState fires the connection-state callbacks. Test hook.
func (c *Client) SetConnectionState(state string) {
	if !c.live() {
		return
	}
	c.mu.Lock()
	fns := append([]func(string){}, c.stateFns...)
	c.mu.Unlock()
	for _, fn := range fns {
		fn(state)
	}
}

func (c *Client) Events() backend.EventBus   { return &eventBus{c: c} }
func (c *Client) Presence() backend.Presence { return &presence{c: c} }

// RPC dispatches to the registered provider, or reports NO_RPC_PROVIDER.
func (c *Client) RPC(method string, data any, done func(result any, err string)) {
	if !c.live() {
		return
	}
	c.b.mu.Lock()
	h, ok := c.b.rpcProviders[method]
	c.b.mu.Unlock()

	if !ok {
		done(nil, "NO_RPC_PROVIDER")
		return
	}
	done(h(data))
}

// addHandler is the built-in "add" procedure: sums integer fields a and b.
func addHandler(data any) (any, string) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, "INVALID_ARGS"
	}
	a, aok := intArg(m["a"])
	b, bok := intArg(m["b"])
	if !aok || !bok {
		return nil, "INVALID_ARGS"
	}
	return a + b, ""
}

func intArg(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
