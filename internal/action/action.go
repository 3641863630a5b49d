// Package action defines the inbound action model for the sync adapter.
//
// Actions arrive as loosely-typed documents (YAML scripts, JSON payloads,
// upstream reactive streams) discriminated by an "action" string field.
// Decode turns those documents into a sealed sum type so the driver can
// dispatch with an exhaustive type switch instead of runtime field
// inspection.
//
// The action stream is shared by many unrelated concerns: documents with an
// unrecognized kind, or missing a required field for their kind, are NOT
// errors. Decode reports them as unmatched and the caller drops them.
package action

// Action is a sealed interface over all inbound action kinds.
// Only the concrete types in this package implement it.
type Action interface {
	isAction() // Sealed - only these types implement it

	// Kind returns the wire discriminator (e.g. "record.subscribe").
	Kind() string
}

// Wire discriminator values for every recognized action kind.
const (
	KindLogin               = "login"
	KindLogout              = "logout"
	KindRecordSubscribe     = "record.subscribe"
	KindRecordGet           = "record.get"
	KindRecordSnapshot      = "record.snapshot"
	KindRecordSet           = "record.set"
	KindRecordDelete        = "record.delete"
	KindRecordDiscard       = "record.discard"
	KindRecordListen        = "record.listen"
	KindListSubscribe       = "list.subscribe"
	KindListGetEntries      = "list.getEntries"
	KindListSetEntries      = "list.setEntries"
	KindListAddEntry        = "list.addEntry"
	KindListRemoveEntry     = "list.removeEntry"
	KindListDelete          = "list.delete"
	KindListDiscard         = "list.discard"
	KindEventSubscribe      = "event.subscribe"
	KindEventUnsubscribe    = "event.unsubscribe"
	KindEventEmit           = "event.emit"
	KindEventListen         = "event.listen"
	KindEventUnlisten       = "event.unlisten"
	KindRPCMake             = "rpc.make"
	KindPresenceSubscribe   = "presence.subscribe"
	KindPresenceUnsubscribe = "presence.unsubscribe"
	KindPresenceGetAll      = "presence.getAll"
)

// Login establishes a new backend session, discarding any prior one.
type Login struct {
	Auth  map[string]any
	Scope string
}

// Logout tears down the current session.
type Logout struct {
	Scope string
}

// RecordSubscribe attaches record listeners per the event-interest set.
// Events is a partial override merged over the kind's default-all-true set.
type RecordSubscribe struct {
	Name   string
	Scope  string
	Events map[string]bool
}

// RecordGet reads the current record value without subscribing.
type RecordGet struct {
	Name  string
	Scope string
}

// RecordSnapshot asks the backend for a point-in-time value by name,
// bypassing the handle cache entirely.
type RecordSnapshot struct {
	Name  string
	Scope string
}

// RecordSet writes a record value. A non-empty Path scopes the write to a
// sub-path. Acknowledge requests a completion callback.
type RecordSet struct {
	Name        string
	Scope       string
	Data        any
	Path        string
	Acknowledge bool
}

// RecordDelete destroys the record at the backend and evicts the handle.
type RecordDelete struct {
	Name  string
	Scope string
}

// RecordDiscard releases local interest in the record and evicts the handle.
type RecordDiscard struct {
	Name  string
	Scope string
}

// RecordListen registers a pattern-based provider for record names.
type RecordListen struct {
	Pattern string
	Scope   string
}

// ListSubscribe attaches list listeners per the event-interest set.
type ListSubscribe struct {
	Name   string
	Scope  string
	Events map[string]bool
}

// ListGetEntries reads the current entries without subscribing.
type ListGetEntries struct {
	Name  string
	Scope string
}

// ListSetEntries replaces the list contents wholesale.
type ListSetEntries struct {
	Name    string
	Scope   string
	Entries []string
}

// ListAddEntry inserts a single entry, optionally at a specific index.
type ListAddEntry struct {
	Name  string
	Scope string
	Entry string
	Index *int
}

// ListRemoveEntry removes a single entry, optionally by index hint.
type ListRemoveEntry struct {
	Name  string
	Scope string
	Entry string
	Index *int
}

// ListDelete destroys the list at the backend and evicts the handle.
type ListDelete struct {
	Name  string
	Scope string
}

// ListDiscard releases local interest in the list and evicts the handle.
type ListDiscard struct {
	Name  string
	Scope string
}

// EventSubscribe attaches a pub/sub listener for a named event.
type EventSubscribe struct {
	Name  string
	Scope string
}

// EventUnsubscribe detaches the listener EventSubscribe attached for the
// same (name, scope) identity.
type EventUnsubscribe struct {
	Name  string
	Scope string
}

// EventEmit publishes a fire-and-forget name/payload pair.
type EventEmit struct {
	Name  string
	Scope string
	Data  any
}

// EventListen registers a pattern-based provider for event names.
type EventListen struct {
	Pattern string
	Scope   string
}

// EventUnlisten removes a pattern-based provider registration.
type EventUnlisten struct {
	Pattern string
	Scope   string
}

// RPCMake invokes a named remote procedure with a payload.
type RPCMake struct {
	Method string
	Scope  string
	Data   any
}

// PresenceSubscribe attaches the per-scope presence listener.
type PresenceSubscribe struct {
	Scope string
}

// PresenceUnsubscribe detaches the per-scope presence listener.
type PresenceUnsubscribe struct {
	Scope string
}

// PresenceGetAll requests the current list of connected clients.
type PresenceGetAll struct {
	Scope string
}

func (Login) isAction()             {}
func (Logout) isAction()            {}
func (RecordSubscribe) isAction()   {}
func (RecordGet) isAction()         {}
func (RecordSnapshot) isAction()    {}
func (RecordSet) isAction()         {}
func (RecordDelete) isAction()      {}
func (RecordDiscard) isAction()     {}
func (RecordListen) isAction()      {}
func (ListSubscribe) isAction()     {}
func (ListGetEntries) isAction()    {}
func (ListSetEntries) isAction()    {}
func (ListAddEntry) isAction()      {}
func (ListRemoveEntry) isAction()   {}
func (ListDelete) isAction()        {}
func (ListDiscard) isAction()       {}
func (EventSubscribe) isAction()    {}
func (EventUnsubscribe) isAction()  {}
func (EventEmit) isAction()         {}
func (EventListen) isAction()       {}
func (EventUnlisten) isAction()     {}
func (RPCMake) isAction()           {}
func (PresenceSubscribe) isAction() {}
func (PresenceUnsubscribe) isAction() {}
func (PresenceGetAll) isAction()    {}

func (Login) Kind() string             { return KindLogin }
func (Logout) Kind() string            { return KindLogout }
func (RecordSubscribe) Kind() string   { return KindRecordSubscribe }
func (RecordGet) Kind() string         { return KindRecordGet }
func (RecordSnapshot) Kind() string    { return KindRecordSnapshot }
func (RecordSet) Kind() string         { return KindRecordSet }
func (RecordDelete) Kind() string      { return KindRecordDelete }
func (RecordDiscard) Kind() string     { return KindRecordDiscard }
func (RecordListen) Kind() string      { return KindRecordListen }
func (ListSubscribe) Kind() string     { return KindListSubscribe }
func (ListGetEntries) Kind() string    { return KindListGetEntries }
func (ListSetEntries) Kind() string    { return KindListSetEntries }
func (ListAddEntry) Kind() string      { return KindListAddEntry }
func (ListRemoveEntry) Kind() string   { return KindListRemoveEntry }
func (ListDelete) Kind() string        { return KindListDelete }
func (ListDiscard) Kind() string       { return KindListDiscard }
func (EventSubscribe) Kind() string    { return KindEventSubscribe }
func (EventUnsubscribe) Kind() string  { return KindEventUnsubscribe }
func (EventEmit) Kind() string         { return KindEventEmit }
func (EventListen) Kind() string       { return KindEventListen }
func (EventUnlisten) Kind() string     { return KindEventUnlisten }
func (RPCMake) Kind() string           { return KindRPCMake }
func (PresenceSubscribe) Kind() string { return KindPresenceSubscribe }
func (PresenceUnsubscribe) Kind() string { return KindPresenceUnsubscribe }
func (PresenceGetAll) Kind() string    { return KindPresenceGetAll }
