package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Login(t *testing.T) {
	a, ok := Decode(map[string]any{
		"action": "login",
		"auth":   map[string]any{"user": "demo"},
		"scope":  "main",
	})
	require.True(t, ok)

	login, ok := a.(Login)
	require.True(t, ok)
	assert.Equal(t, "demo", login.Auth["user"])
	assert.Equal(t, "main", login.Scope)
}

func TestDecode_LoginRequiresAuth(t *testing.T) {
	_, ok := Decode(map[string]any{"action": "login", "scope": "main"})
	assert.False(t, ok, "login without auth should be dropped")
}

func TestDecode_UnknownKindDropped(t *testing.T) {
	_, ok := Decode(map[string]any{"action": "teleport", "name": "x"})
	assert.False(t, ok)
}

func TestDecode_MissingActionDropped(t *testing.T) {
	_, ok := Decode(map[string]any{"name": "x"})
	assert.False(t, ok)
}

func TestDecode_RequiredNameMissing(t *testing.T) {
	kinds := []string{
		"record.subscribe", "record.get", "record.snapshot",
		"record.delete", "record.discard",
		"list.subscribe", "list.getEntries", "list.delete", "list.discard",
		"event.subscribe", "event.unsubscribe", "event.emit",
	}
	for _, kind := range kinds {
		t.Run(kind, func(t *testing.T) {
			_, ok := Decode(map[string]any{"action": kind})
			assert.False(t, ok, "missing name should drop the document")
		})
	}
}

func TestDecode_NameMustBeString(t *testing.T) {
	_, ok := Decode(map[string]any{"action": "record.get", "name": 42})
	assert.False(t, ok, "non-string name should fail like a missing name")
}

func TestDecode_RecordSet(t *testing.T) {
	a, ok := Decode(map[string]any{
		"action":      "record.set",
		"name":        "user/1",
		"data":        map[string]any{"status": "online"},
		"path":        "status",
		"acknowledge": true,
		"scope":       "profile",
	})
	require.True(t, ok)

	set, ok := a.(RecordSet)
	require.True(t, ok)
	assert.Equal(t, "user/1", set.Name)
	assert.Equal(t, "status", set.Path)
	assert.True(t, set.Acknowledge)
	assert.Equal(t, "profile", set.Scope)
}

func TestDecode_RecordSetRequiresData(t *testing.T) {
	_, ok := Decode(map[string]any{"action": "record.set", "name": "user/1"})
	assert.False(t, ok)
}

func TestDecode_ListSetEntries(t *testing.T) {
	a, ok := Decode(map[string]any{
		"action":  "list.setEntries",
		"name":    "rooms",
		"entries": []any{"general", "random"},
	})
	require.True(t, ok)

	set, ok := a.(ListSetEntries)
	require.True(t, ok)
	assert.Equal(t, []string{"general", "random"}, set.Entries)
}

func TestDecode_ListSetEntriesRejectsMixedTypes(t *testing.T) {
	_, ok := Decode(map[string]any{
		"action":  "list.setEntries",
		"name":    "rooms",
		"entries": []any{"general", 7},
	})
	assert.False(t, ok)
}

func TestDecode_ListAddEntryIndex(t *testing.T) {
	t.Run("int index", func(t *testing.T) {
		a, ok := Decode(map[string]any{
			"action": "list.addEntry", "name": "rooms", "entry": "general", "index": 0,
		})
		require.True(t, ok)
		add := a.(ListAddEntry)
		require.NotNil(t, add.Index)
		assert.Equal(t, 0, *add.Index)
	})

	t.Run("float index from JSON decoding", func(t *testing.T) {
		a, ok := Decode(map[string]any{
			"action": "list.addEntry", "name": "rooms", "entry": "general", "index": float64(2),
		})
		require.True(t, ok)
		add := a.(ListAddEntry)
		require.NotNil(t, add.Index)
		assert.Equal(t, 2, *add.Index)
	})

	t.Run("absent index", func(t *testing.T) {
		a, ok := Decode(map[string]any{
			"action": "list.addEntry", "name": "rooms", "entry": "general",
		})
		require.True(t, ok)
		assert.Nil(t, a.(ListAddEntry).Index)
	})
}

func TestDecode_EventInterestOverrides(t *testing.T) {
	a, ok := Decode(map[string]any{
		"action": "record.subscribe",
		"name":   "user/1",
		"events": map[string]any{"change": false, "delete": true, "bogus": "yes"},
	})
	require.True(t, ok)

	sub := a.(RecordSubscribe)
	assert.Equal(t, map[string]bool{"change": false, "delete": true}, sub.Events)
}

func TestDecode_RPCMake(t *testing.T) {
	a, ok := Decode(map[string]any{
		"action": "rpc.make",
		"method": "add",
		"data":   map[string]any{"a": 2, "b": 3},
	})
	require.True(t, ok)

	rpc := a.(RPCMake)
	assert.Equal(t, "add", rpc.Method)
	assert.NotNil(t, rpc.Data)
}

func TestDecode_PresenceNeedsNoFields(t *testing.T) {
	for _, kind := range []string{"presence.subscribe", "presence.unsubscribe", "presence.getAll"} {
		t.Run(kind, func(t *testing.T) {
			a, ok := Decode(map[string]any{"action": kind, "scope": "who"})
			require.True(t, ok)
			assert.Equal(t, kind, a.Kind())
		})
	}
}

func TestDecode_KindRoundTrip(t *testing.T) {
	// Every decoded action reports the kind it was dispatched on.
	docs := []map[string]any{
		{"action": "logout"},
		{"action": "record.listen", "pattern": "user/.*"},
		{"action": "event.listen", "pattern": "chat/.*"},
		{"action": "event.unlisten", "pattern": "chat/.*"},
		{"action": "list.removeEntry", "name": "rooms", "entry": "general"},
	}
	for _, doc := range docs {
		a, ok := Decode(doc)
		require.True(t, ok, "doc %v", doc)
		assert.Equal(t, doc["action"], a.Kind())
	}
}
