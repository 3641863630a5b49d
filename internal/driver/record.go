package driver

import (
	"errors"
	"log/slog"

	"github.com/relaykit/relaykit/internal/action"
	"github.com/relaykit/relaykit/internal/backend"
	"github.com/relaykit/relaykit/internal/event"
)

// startRecord wires a fresh record handle into the cache's ready/error
// protocol. The handle variable is bound before the callbacks are
// registered, so a backend that fires ready synchronously is safe.
func startRecord(client backend.Client, name string) startFunc[backend.Record] {
	return func(ready func(backend.Record), fail func(string)) {
		rec := client.Record(name)
		rec.OnError(fail)
		rec.OnReady(func() { ready(rec) })
	}
}

// handleRecordSubscribe resolves the handle and attaches the subset of
// listeners the merged event-interest set asks for. The existing flag is
// passed through to the backend, which controls whether the change
// listener fires once immediately with the current value.
func (d *Driver) handleRecordSubscribe(a action.RecordSubscribe) {
	s := d.current(action.KindRecordSubscribe)
	if s == nil {
		return
	}

	id := Identity{Name: a.Name, Scope: a.Scope}
	interest := recordInterest(a.Events)

	s.records.resolve(id, startRecord(s.client, a.Name), func(rec backend.Record, err error) {
		if err != nil {
			d.emit(event.Event{Kind: event.RecordError, Name: a.Name, Scope: a.Scope, Error: errText(err)})
			return
		}

		if interest[interestChange] {
			rec.Subscribe(interest[interestExisting], func(data any) {
				d.emit(event.Event{Kind: event.RecordChange, Name: a.Name, Scope: a.Scope, Data: data})
			})
		}
		if interest[interestDiscard] {
			rec.OnDiscard(func() {
				d.emit(event.Event{Kind: event.RecordDiscard, Name: a.Name, Scope: a.Scope})
			})
		}
		if interest[interestDelete] {
			rec.OnDelete(func() {
				d.emit(event.Event{Kind: event.RecordDelete, Name: a.Name, Scope: a.Scope})
			})
		}
		if interest[interestError] {
			rec.OnError(func(msg string) {
				d.emit(event.Event{Kind: event.RecordError, Name: a.Name, Scope: a.Scope, Error: msg})
			})
		}
	})
}

// handleRecordGet emits the current snapshot value without establishing
// a subscription.
func (d *Driver) handleRecordGet(a action.RecordGet) {
	s := d.current(action.KindRecordGet)
	if s == nil {
		return
	}

	id := Identity{Name: a.Name, Scope: a.Scope}
	s.records.resolve(id, startRecord(s.client, a.Name), func(rec backend.Record, err error) {
		if err != nil {
			d.emit(event.Event{Kind: event.RecordError, Name: a.Name, Scope: a.Scope, Error: errText(err)})
			return
		}
		d.emit(event.Event{Kind: event.RecordGet, Name: a.Name, Scope: a.Scope, Data: rec.Get()})
	})
}

// handleRecordSnapshot bypasses the handle cache entirely. Failure rides
// the same event shape: a non-empty error field signals it.
func (d *Driver) handleRecordSnapshot(a action.RecordSnapshot) {
	s := d.current(action.KindRecordSnapshot)
	if s == nil {
		return
	}

	s.client.Snapshot(a.Name, func(data any, errStr string) {
		d.emit(event.Event{Kind: event.RecordSnapshot, Name: a.Name, Scope: a.Scope, Data: data, Error: errStr})
	})
}

// handleRecordSet writes through the cached handle. With acknowledgement
// the completion emits record.set on success; a backend-reported write
// error is logged and nothing is emitted. Without acknowledgement the
// write is fire-and-forget.
func (d *Driver) handleRecordSet(a action.RecordSet) {
	s := d.current(action.KindRecordSet)
	if s == nil {
		return
	}

	id := Identity{Name: a.Name, Scope: a.Scope}
	s.records.resolve(id, startRecord(s.client, a.Name), func(rec backend.Record, err error) {
		if err != nil {
			slog.Debug("record set dropped: handle resolution failed", "name", a.Name, "error", err)
			return
		}

		if !a.Acknowledge {
			if a.Path != "" {
				rec.SetPath(a.Path, a.Data)
			} else {
				rec.Set(a.Data)
			}
			return
		}

		done := func(writeErr string) {
			if writeErr != "" {
				slog.Warn("record write failed", "name", a.Name, "scope", a.Scope, "error", writeErr)
				return
			}
			d.emit(event.Event{Kind: event.RecordSet, Name: a.Name, Scope: a.Scope})
		}
		if a.Path != "" {
			rec.SetPathWithAck(a.Path, a.Data, done)
		} else {
			rec.SetWithAck(a.Data, done)
		}
	})
}

// handleRecordDelete unsubscribes, destroys, then evicts - in that order,
// so a late backend callback can never reference a destroyed handle.
func (d *Driver) handleRecordDelete(a action.RecordDelete) {
	d.destroyRecord(action.KindRecordDelete, Identity{Name: a.Name, Scope: a.Scope}, true)
}

// handleRecordDiscard releases local interest with the same ordering as
// delete.
func (d *Driver) handleRecordDiscard(a action.RecordDiscard) {
	d.destroyRecord(action.KindRecordDiscard, Identity{Name: a.Name, Scope: a.Scope}, false)
}

func (d *Driver) destroyRecord(kind string, id Identity, del bool) {
	s := d.current(kind)
	if s == nil {
		return
	}

	s.records.resolve(id, startRecord(s.client, id.Name), func(rec backend.Record, err error) {
		if err != nil {
			slog.Debug("record destroy dropped: handle resolution failed", "name", id.Name, "error", err)
			s.records.evict(id)
			return
		}

		rec.UnsubscribeAll()
		if del {
			rec.Delete()
		} else {
			rec.Discard()
		}
		s.records.evict(id)
	})
}

// handleRecordListen registers a pattern provider directly against the
// backend (not cached). Subscriptions that request a provider are
// auto-accepted.
func (d *Driver) handleRecordListen(a action.RecordListen) {
	s := d.current(action.KindRecordListen)
	if s == nil {
		return
	}

	s.client.ListenRecords(a.Pattern, func(match string, isSubscribed bool, resp backend.ListenResponse) {
		if isSubscribed {
			resp.Accept()
		}
		d.emit(event.Event{Kind: event.RecordListen, Scope: a.Scope, Match: match, IsSubscribed: isSubscribed})
	})
}

// errText unwraps the backend-reported message from a DriverError; other
// errors pass through verbatim.
func errText(err error) string {
	var de *DriverError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
