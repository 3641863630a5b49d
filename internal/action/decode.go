package action

// Decode converts a loosely-typed action document into its concrete Action.
//
// Returns (nil, false) when the document has no recognized "action" kind or
// is missing a required field for its kind. This is the sole dispatch
// mechanism for the shared stream, so unmatched documents are dropped
// without error (the stream carries many unrelated concerns).
//
// Field types are validated as well: a "name" that is not a string fails the
// required-field check the same way a missing "name" does.
func Decode(doc map[string]any) (Action, bool) {
	kind, ok := stringField(doc, "action")
	if !ok {
		return nil, false
	}

	switch kind {
	case KindLogin:
		auth, ok := mapField(doc, "auth")
		if !ok {
			return nil, false
		}
		return Login{Auth: auth, Scope: optString(doc, "scope")}, true

	case KindLogout:
		return Logout{Scope: optString(doc, "scope")}, true

	case KindRecordSubscribe:
		name, ok := stringField(doc, "name")
		if !ok {
			return nil, false
		}
		return RecordSubscribe{Name: name, Scope: optString(doc, "scope"), Events: optBoolMap(doc, "events")}, true

	case KindRecordGet:
		name, ok := stringField(doc, "name")
		if !ok {
			return nil, false
		}
		return RecordGet{Name: name, Scope: optString(doc, "scope")}, true

	case KindRecordSnapshot:
		name, ok := stringField(doc, "name")
		if !ok {
			return nil, false
		}
		return RecordSnapshot{Name: name, Scope: optString(doc, "scope")}, true

	case KindRecordSet:
		name, ok := stringField(doc, "name")
		if !ok {
			return nil, false
		}
		data, ok := doc["data"]
		if !ok {
			return nil, false
		}
		return RecordSet{
			Name:        name,
			Scope:       optString(doc, "scope"),
			Data:        data,
			Path:        optString(doc, "path"),
			Acknowledge: optBool(doc, "acknowledge"),
		}, true

	case KindRecordDelete:
		name, ok := stringField(doc, "name")
		if !ok {
			return nil, false
		}
		return RecordDelete{Name: name, Scope: optString(doc, "scope")}, true

	case KindRecordDiscard:
		name, ok := stringField(doc, "name")
		if !ok {
			return nil, false
		}
		return RecordDiscard{Name: name, Scope: optString(doc, "scope")}, true

	case KindRecordListen:
		pattern, ok := stringField(doc, "pattern")
		if !ok {
			return nil, false
		}
		return RecordListen{Pattern: pattern, Scope: optString(doc, "scope")}, true

	case KindListSubscribe:
		name, ok := stringField(doc, "name")
		if !ok {
			return nil, false
		}
		return ListSubscribe{Name: name, Scope: optString(doc, "scope"), Events: optBoolMap(doc, "events")}, true

	case KindListGetEntries:
		name, ok := stringField(doc, "name")
		if !ok {
			return nil, false
		}
		return ListGetEntries{Name: name, Scope: optString(doc, "scope")}, true

	case KindListSetEntries:
		name, ok := stringField(doc, "name")
		if !ok {
			return nil, false
		}
		entries, ok := stringSliceField(doc, "entries")
		if !ok {
			return nil, false
		}
		return ListSetEntries{Name: name, Scope: optString(doc, "scope"), Entries: entries}, true

	case KindListAddEntry:
		name, ok := stringField(doc, "name")
		if !ok {
			return nil, false
		}
		entry, ok := stringField(doc, "entry")
		if !ok {
			return nil, false
		}
		return ListAddEntry{Name: name, Scope: optString(doc, "scope"), Entry: entry, Index: optIndex(doc)}, true

	case KindListRemoveEntry:
		name, ok := stringField(doc, "name")
		if !ok {
			return nil, false
		}
		entry, ok := stringField(doc, "entry")
		if !ok {
			return nil, false
		}
		return ListRemoveEntry{Name: name, Scope: optString(doc, "scope"), Entry: entry, Index: optIndex(doc)}, true

	case KindListDelete:
		name, ok := stringField(doc, "name")
		if !ok {
			return nil, false
		}
		return ListDelete{Name: name, Scope: optString(doc, "scope")}, true

	case KindListDiscard:
		name, ok := stringField(doc, "name")
		if !ok {
			return nil, false
		}
		return ListDiscard{Name: name, Scope: optString(doc, "scope")}, true

	case KindEventSubscribe:
		name, ok := stringField(doc, "name")
		if !ok {
			return nil, false
		}
		return EventSubscribe{Name: name, Scope: optString(doc, "scope")}, true

	case KindEventUnsubscribe:
		name, ok := stringField(doc, "name")
		if !ok {
			return nil, false
		}
		return EventUnsubscribe{Name: name, Scope: optString(doc, "scope")}, true

	case KindEventEmit:
		name, ok := stringField(doc, "name")
		if !ok {
			return nil, false
		}
		return EventEmit{Name: name, Scope: optString(doc, "scope"), Data: doc["data"]}, true

	case KindEventListen:
		pattern, ok := stringField(doc, "pattern")
		if !ok {
			return nil, false
		}
		return EventListen{Pattern: pattern, Scope: optString(doc, "scope")}, true

	case KindEventUnlisten:
		pattern, ok := stringField(doc, "pattern")
		if !ok {
			return nil, false
		}
		return EventUnlisten{Pattern: pattern, Scope: optString(doc, "scope")}, true

	case KindRPCMake:
		method, ok := stringField(doc, "method")
		if !ok {
			return nil, false
		}
		return RPCMake{Method: method, Scope: optString(doc, "scope"), Data: doc["data"]}, true

	case KindPresenceSubscribe:
		return PresenceSubscribe{Scope: optString(doc, "scope")}, true

	case KindPresenceUnsubscribe:
		return PresenceUnsubscribe{Scope: optString(doc, "scope")}, true

	case KindPresenceGetAll:
		return PresenceGetAll{Scope: optString(doc, "scope")}, true

	default:
		return nil, false
	}
}

// stringField extracts a required non-empty string field.
func stringField(doc map[string]any, key string) (string, bool) {
	v, ok := doc[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// mapField extracts a required map field.
func mapField(doc map[string]any, key string) (map[string]any, bool) {
	v, ok := doc[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// stringSliceField extracts a required slice-of-strings field.
// YAML/JSON decoders produce []any, so each element is re-checked.
func stringSliceField(doc map[string]any, key string) ([]string, bool) {
	v, ok := doc[key]
	if !ok {
		return nil, false
	}
	switch vv := v.(type) {
	case []string:
		return vv, true
	case []any:
		out := make([]string, len(vv))
		for i, elem := range vv {
			s, ok := elem.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

// optString extracts an optional string field; absent or mistyped yields "".
func optString(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return s
}

// optBool extracts an optional bool field; absent or mistyped yields false.
func optBool(doc map[string]any, key string) bool {
	b, _ := doc[key].(bool)
	return b
}

// optBoolMap extracts an optional map-of-bools field (event-interest
// overrides). Non-bool values are skipped.
func optBoolMap(doc map[string]any, key string) map[string]bool {
	raw, ok := doc[key].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]bool, len(raw))
	for k, v := range raw {
		if b, ok := v.(bool); ok {
			out[k] = b
		}
	}
	return out
}

// optIndex extracts the optional "index" field. The zero index is a valid
// position, so presence is reported through the pointer.
func optIndex(doc map[string]any) *int {
	v, ok := doc["index"]
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case int:
		return &n
	case int64:
		i := int(n)
		return &i
	case float64:
		i := int(n)
		return &i
	default:
		return nil
	}
}
