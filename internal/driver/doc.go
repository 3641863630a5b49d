// Package driver implements the intent-driven realtime synchronization
// adapter.
//
// The driver consumes a single heterogeneous stream of declarative actions
// (subscribe to a record, set a value, emit an event, make an RPC call),
// translates each into operations against a realtime backend, and
// re-emits every backend signal as a uniformly shaped, scope-tagged event
// on one continuously open output stream.
//
// ARCHITECTURE:
//
// Single-Writer Action Loop:
// All actions are processed by a single goroutine for deterministic
// behavior. Run() dequeues actions in FIFO order and dispatches each with
// an exhaustive type switch over the action sum type. Because there is one
// loop, actions of the same kind are processed in arrival order for free.
//
// Session State:
// The backend client and the three caches that depend on it (record
// handles, list handles, attached subscriptions) live in one session
// object owned by the loop. Login replaces the session wholesale after
// tearing down its predecessor; handlers never observe a half-reset
// session. A cache reset fails every pending handle resolution, so no
// operation completes against a superseded client.
//
// Completion Callbacks:
// Backend round-trips (handle ready, write ack, snapshot, RPC, getAll)
// complete via callbacks on the backend's dispatch context. Those
// callbacks touch only the emitter and the mutex-guarded caches, never
// the loop's own state, so no operation ever blocks the loop.
//
// Error policy: backend connection errors and entity-level failures become
// *.error events on the output stream; acknowledged-write failures are
// logged only; malformed or unrecognized actions are dropped silently at
// decode time.
package driver
