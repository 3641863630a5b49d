package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionRegistry_EventAttachTake(t *testing.T) {
	r := newSubscriptionRegistry()
	id := Identity{Name: "chat", Scope: "main"}

	require.True(t, r.attachEvent(id, 7))
	assert.True(t, r.hasEvent(id))

	sub, ok := r.takeEvent(id)
	require.True(t, ok)
	assert.EqualValues(t, 7, sub)
	assert.False(t, r.hasEvent(id))

	_, ok = r.takeEvent(id)
	assert.False(t, ok, "second take finds nothing")
}

func TestSubscriptionRegistry_DuplicateAttachRejected(t *testing.T) {
	r := newSubscriptionRegistry()
	id := Identity{Name: "chat", Scope: "main"}

	require.True(t, r.attachEvent(id, 1))
	assert.False(t, r.attachEvent(id, 2), "identity already holds a listener")

	sub, ok := r.takeEvent(id)
	require.True(t, ok)
	assert.EqualValues(t, 1, sub, "first token is the recorded one")
}

func TestSubscriptionRegistry_PresencePerScope(t *testing.T) {
	r := newSubscriptionRegistry()

	require.True(t, r.attachPresence("a", 1))
	require.True(t, r.attachPresence("b", 2))
	assert.False(t, r.attachPresence("a", 3))

	sub, ok := r.takePresence("b")
	require.True(t, ok)
	assert.EqualValues(t, 2, sub)
	assert.True(t, r.hasPresence("a"))
	assert.False(t, r.hasPresence("b"))
}

func TestSubscriptionRegistry_Reset(t *testing.T) {
	r := newSubscriptionRegistry()
	r.attachEvent(Identity{Name: "chat"}, 1)
	r.attachPresence("main", 2)

	r.reset()

	assert.False(t, r.hasEvent(Identity{Name: "chat"}))
	assert.False(t, r.hasPresence("main"))
}
