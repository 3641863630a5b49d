package driver

import (
	"log/slog"

	"github.com/relaykit/relaykit/internal/action"
	"github.com/relaykit/relaykit/internal/backend"
	"github.com/relaykit/relaykit/internal/event"
)

// startList wires a fresh list handle into the cache's ready/error
// protocol.
func startList(client backend.Client, name string) startFunc[backend.List] {
	return func(ready func(backend.List), fail func(string)) {
		lst := client.List(name)
		lst.OnError(fail)
		lst.OnReady(func() { ready(lst) })
	}
}

// handleListSubscribe resolves the handle and attaches list listeners per
// the merged event-interest set.
//
// The first invocation of the backend's subscription callback synthesizes
// one list.entry-existing event per current entry, in index order. Later
// invocations (triggered by mutations) emit list.change with the full
// entries instead - they must never re-synthesize the existing set.
func (d *Driver) handleListSubscribe(a action.ListSubscribe) {
	s := d.current(action.KindListSubscribe)
	if s == nil {
		return
	}

	id := Identity{Name: a.Name, Scope: a.Scope}
	interest := listInterest(a.Events)

	s.lists.resolve(id, startList(s.client, a.Name), func(lst backend.List, err error) {
		if err != nil {
			d.emit(event.Event{Kind: event.ListError, Name: a.Name, Scope: a.Scope, Error: errText(err)})
			return
		}

		if interest[interestChange] || interest[interestEntryExisting] {
			first := true
			lst.Subscribe(func(entries []string) {
				if first {
					first = false
					if interest[interestEntryExisting] {
						for i, entry := range entries {
							d.emit(event.Event{
								Kind:  event.ListEntryExisting,
								Name:  a.Name,
								Scope: a.Scope,
								Entry: entry,
								Index: i,
							})
						}
					}
					return
				}
				if interest[interestChange] {
					d.emit(event.Event{Kind: event.ListChange, Name: a.Name, Scope: a.Scope, Data: entries})
				}
			})
		}

		if interest[interestEntryAdded] {
			lst.OnEntryAdded(func(entry string, index int) {
				d.emit(event.Event{Kind: event.ListEntryAdded, Name: a.Name, Scope: a.Scope, Entry: entry, Index: index})
			})
		}
		if interest[interestEntryMoved] {
			lst.OnEntryMoved(func(entry string, index int) {
				d.emit(event.Event{Kind: event.ListEntryMoved, Name: a.Name, Scope: a.Scope, Entry: entry, Index: index})
			})
		}
		if interest[interestEntryRemoved] {
			lst.OnEntryRemoved(func(entry string, index int) {
				d.emit(event.Event{Kind: event.ListEntryRemoved, Name: a.Name, Scope: a.Scope, Entry: entry, Index: index})
			})
		}
		if interest[interestDiscard] {
			lst.OnDiscard(func() {
				d.emit(event.Event{Kind: event.ListDiscard, Name: a.Name, Scope: a.Scope})
			})
		}
		if interest[interestDelete] {
			lst.OnDelete(func() {
				d.emit(event.Event{Kind: event.ListDelete, Name: a.Name, Scope: a.Scope})
			})
		}
		if interest[interestError] {
			lst.OnError(func(msg string) {
				d.emit(event.Event{Kind: event.ListError, Name: a.Name, Scope: a.Scope, Error: msg})
			})
		}
	})
}

// handleListGetEntries emits the current entries without subscribing.
func (d *Driver) handleListGetEntries(a action.ListGetEntries) {
	s := d.current(action.KindListGetEntries)
	if s == nil {
		return
	}

	id := Identity{Name: a.Name, Scope: a.Scope}
	s.lists.resolve(id, startList(s.client, a.Name), func(lst backend.List, err error) {
		if err != nil {
			d.emit(event.Event{Kind: event.ListError, Name: a.Name, Scope: a.Scope, Error: errText(err)})
			return
		}
		d.emit(event.Event{Kind: event.ListGetEntries, Name: a.Name, Scope: a.Scope, Data: lst.Entries()})
	})
}

// handleListSetEntries replaces the list contents wholesale.
func (d *Driver) handleListSetEntries(a action.ListSetEntries) {
	s := d.current(action.KindListSetEntries)
	if s == nil {
		return
	}

	id := Identity{Name: a.Name, Scope: a.Scope}
	s.lists.resolve(id, startList(s.client, a.Name), func(lst backend.List, err error) {
		if err != nil {
			slog.Debug("list setEntries dropped: handle resolution failed", "name", a.Name, "error", err)
			return
		}
		lst.SetEntries(a.Entries)
	})
}

// handleListAddEntry inserts one entry, optionally at an index hint.
func (d *Driver) handleListAddEntry(a action.ListAddEntry) {
	s := d.current(action.KindListAddEntry)
	if s == nil {
		return
	}

	id := Identity{Name: a.Name, Scope: a.Scope}
	s.lists.resolve(id, startList(s.client, a.Name), func(lst backend.List, err error) {
		if err != nil {
			slog.Debug("list addEntry dropped: handle resolution failed", "name", a.Name, "error", err)
			return
		}
		lst.AddEntry(a.Entry, a.Index)
	})
}

// handleListRemoveEntry removes one entry, optionally by index hint.
func (d *Driver) handleListRemoveEntry(a action.ListRemoveEntry) {
	s := d.current(action.KindListRemoveEntry)
	if s == nil {
		return
	}

	id := Identity{Name: a.Name, Scope: a.Scope}
	s.lists.resolve(id, startList(s.client, a.Name), func(lst backend.List, err error) {
		if err != nil {
			slog.Debug("list removeEntry dropped: handle resolution failed", "name", a.Name, "error", err)
			return
		}
		lst.RemoveEntry(a.Entry, a.Index)
	})
}

// handleListDelete unsubscribes, destroys, then evicts (same ordering as
// records).
func (d *Driver) handleListDelete(a action.ListDelete) {
	d.destroyList(action.KindListDelete, Identity{Name: a.Name, Scope: a.Scope}, true)
}

// handleListDiscard releases local interest in the list.
func (d *Driver) handleListDiscard(a action.ListDiscard) {
	d.destroyList(action.KindListDiscard, Identity{Name: a.Name, Scope: a.Scope}, false)
}

func (d *Driver) destroyList(kind string, id Identity, del bool) {
	s := d.current(kind)
	if s == nil {
		return
	}

	s.lists.resolve(id, startList(s.client, id.Name), func(lst backend.List, err error) {
		if err != nil {
			slog.Debug("list destroy dropped: handle resolution failed", "name", id.Name, "error", err)
			s.lists.evict(id)
			return
		}

		lst.UnsubscribeAll()
		if del {
			lst.Delete()
		} else {
			lst.Discard()
		}
		s.lists.evict(id)
	})
}
