// Package event defines the outbound event model for the sync adapter.
//
// Every backend signal and every operation result is re-emitted as a
// uniformly shaped Event on the single output stream. Events carry the
// scope of the triggering action (when one was given) so consumers can
// route by logical view, and a monotonic Seq stamp so transcripts are
// totally ordered.
package event

// Kind discriminates outbound event shapes.
type Kind string

// Outbound event kinds. These mirror the inbound action kinds.
const (
	LoginSuccess    Kind = "login.success"
	LoginFailure    Kind = "login.failure"
	Logout          Kind = "logout"
	ClientError     Kind = "client.error"
	ConnectionState Kind = "connection.state"

	RecordChange   Kind = "record.change"
	RecordGet      Kind = "record.get"
	RecordSnapshot Kind = "record.snapshot"
	RecordSet      Kind = "record.set"
	RecordDiscard  Kind = "record.discard"
	RecordDelete   Kind = "record.delete"
	RecordError    Kind = "record.error"
	RecordListen   Kind = "record.listen"

	ListChange        Kind = "list.change"
	ListEntryExisting Kind = "list.entry-existing"
	ListEntryAdded    Kind = "list.entry-added"
	ListEntryMoved    Kind = "list.entry-moved"
	ListEntryRemoved  Kind = "list.entry-removed"
	ListDiscard       Kind = "list.discard"
	ListDelete        Kind = "list.delete"
	ListError         Kind = "list.error"
	ListGetEntries    Kind = "list.getEntries"

	// EventEmit is the delivery of a pub/sub message to a subscriber.
	// It mirrors the inbound emit that produced it.
	EventEmit   Kind = "event.emit"
	EventListen Kind = "event.listen"

	RPCResponse Kind = "rpc.response"
	// RPCError reports a failed rpc.make. Failures ride the stream like
	// every other error channel; they never raise.
	RPCError Kind = "rpc.error"

	PresenceEvent  Kind = "presence.event"
	PresenceGetAll Kind = "presence.getAll"
)

// Event is a single outbound event. Which payload fields are meaningful
// depends on Kind; unused fields stay at their zero value. Events are
// never mutated after emission.
type Event struct {
	Kind  Kind
	Name  string
	Scope string
	Seq   int64

	// Data carries value payloads (record data, list entries, RPC results,
	// presence client lists, login response data).
	Data any

	// Error carries the backend-reported error text for *.error kinds and
	// failed snapshots.
	Error string

	// Entry and Index carry list entry payloads (entry-existing,
	// entry-added, entry-moved, entry-removed).
	Entry string
	Index int

	// Match and IsSubscribed carry pattern-listen notifications
	// (record.listen, event.listen).
	Match        string
	IsSubscribed bool

	// Username and IsOnline carry presence.event payloads.
	Username string
	IsOnline bool

	// State carries connection.state payloads.
	State string
}
