// Package backend declares the capability surface of the realtime backend
// client library the driver mediates to.
//
// The backend library itself (connection management, wire protocol,
// reconnection) is an external collaborator: this package specifies only
// the interfaces the driver consumes. memback provides the in-process
// implementation used by tests, the harness, and the CLI.
//
// Callback model: handle creation is asynchronous. A Record or List handle
// is obtained immediately, then fires exactly one of OnReady or OnError.
// Subscription-style registrations on the event bus and presence surface
// return an opaque Subscription token; detaching takes the token back, so
// callers never depend on function-identity equality.
package backend

// Options is an opaque bag of backend-specific connection options, passed
// through to the Dialer untouched.
type Options map[string]any

// Dialer constructs a client for an endpoint. Implemented by memback for
// in-process use; a production binding would wrap the vendor client library.
type Dialer interface {
	Dial(endpoint string, opts Options) (Client, error)
}

// LoginResult is the backend's answer to a login call. Success decides
// which of login.success / login.failure the driver emits; Data is
// forwarded verbatim either way.
type LoginResult struct {
	Success bool
	Data    any
}

// ListenResponse lets a pattern listener accept or reject responsibility
// for a matched name.
type ListenResponse interface {
	Accept()
	Reject()
}

// ListenFunc is notified when a name matching the registered pattern gains
// its first subscriber (isSubscribed true) or loses its last one (false).
type ListenFunc func(match string, isSubscribed bool, response ListenResponse)

// Subscription is an opaque token identifying one attached callback.
type Subscription uint64

// Client is a live backend connection.
//
// Close invalidates the client: callbacks registered through a closed
// client must never fire again, and new calls are no-ops.
type Client interface {
	Login(auth map[string]any, done func(LoginResult))
	Close()

	OnError(fn func(err string))
	OnConnectionState(fn func(state string))

	// Record returns a handle for the named record. The handle is not
	// usable until OnReady fires; OnError fires instead if the backend
	// cannot produce it.
	Record(name string) Record

	// Snapshot fetches a point-in-time record value by name without
	// creating a handle. Exactly one of data or err is meaningful.
	Snapshot(name string, done func(data any, err string))

	// List returns a handle for the named list, with the same ready/error
	// protocol as Record.
	List(name string) List

	Events() EventBus
	Presence() Presence

	// RPC invokes a named remote procedure. Exactly one of result or err
	// is meaningful in the completion.
	RPC(method string, data any, done func(result any, err string))

	// ListenRecords registers a pattern provider for record names.
	ListenRecords(pattern string, fn ListenFunc)
	UnlistenRecords(pattern string)
}

// Record is a handle to a single named mutable document.
type Record interface {
	OnReady(fn func())
	OnError(fn func(err string))

	// Subscribe attaches a data-change listener. With triggerNow the
	// backend fires it once immediately with the current value.
	Subscribe(triggerNow bool, fn func(data any))
	OnDiscard(fn func())
	OnDelete(fn func())

	Get() any
	Set(data any)
	SetPath(path string, data any)
	SetWithAck(data any, done func(err string))
	SetPathWithAck(path string, data any, done func(err string))

	// UnsubscribeAll detaches every listener this handle attached.
	UnsubscribeAll()
	Discard()
	Delete()
}

// List is a handle to a single named ordered collection of strings.
type List interface {
	OnReady(fn func())
	OnError(fn func(err string))

	// Subscribe attaches an entries listener. The backend fires it once
	// immediately with the current entries, then again on each mutation.
	Subscribe(fn func(entries []string))
	OnDiscard(fn func())
	OnDelete(fn func())
	OnEntryAdded(fn func(entry string, index int))
	OnEntryMoved(fn func(entry string, index int))
	OnEntryRemoved(fn func(entry string, index int))

	Entries() []string
	SetEntries(entries []string)
	AddEntry(entry string, index *int)
	RemoveEntry(entry string, index *int)

	UnsubscribeAll()
	Discard()
	Delete()
}

// EventBus is the fire-and-forget pub/sub surface.
type EventBus interface {
	Subscribe(name string, fn func(data any)) Subscription
	Unsubscribe(name string, sub Subscription)
	Emit(name string, data any)
	Listen(pattern string, fn ListenFunc)
	Unlisten(pattern string)
}

// Presence is the user-presence surface.
type Presence interface {
	Subscribe(fn func(username string, online bool)) Subscription
	Unsubscribe(sub Subscription)
	GetAll(done func(clients []string))
}
