package memback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_SubscribeFiresImmediately(t *testing.T) {
	b := New()
	b.SeedList("rooms", []string{"alpha", "beta"})
	c := dial(t, b)

	var got [][]string
	c.List("rooms").Subscribe(func(entries []string) {
		got = append(got, entries)
	})

	require.Len(t, got, 1)
	assert.Equal(t, []string{"alpha", "beta"}, got[0])
}

func TestList_AddEntryAppendsWithoutHint(t *testing.T) {
	b := New()
	b.SeedList("rooms", []string{"alpha"})
	c := dial(t, b)

	lst := c.List("rooms")

	var addedEntry string
	var addedIndex int
	lst.OnEntryAdded(func(entry string, index int) { addedEntry, addedIndex = entry, index })

	lst.AddEntry("beta", nil)

	assert.Equal(t, "beta", addedEntry)
	assert.Equal(t, 1, addedIndex)
	assert.Equal(t, []string{"alpha", "beta"}, lst.Entries())
}

func TestList_AddEntryClampsIndexHint(t *testing.T) {
	b := New()
	b.SeedList("rooms", []string{"alpha"})
	c := dial(t, b)

	lst := c.List("rooms")
	over := 99
	lst.AddEntry("beta", &over)
	under := -5
	lst.AddEntry("gamma", &under)

	assert.Equal(t, []string{"gamma", "alpha", "beta"}, lst.Entries())
}

func TestList_AddExistingEntryWithIndexMoves(t *testing.T) {
	b := New()
	b.SeedList("rooms", []string{"alpha", "beta", "gamma"})
	c := dial(t, b)

	lst := c.List("rooms")

	added, moved := 0, 0
	var movedEntry string
	var movedIndex int
	lst.OnEntryAdded(func(string, int) { added++ })
	lst.OnEntryMoved(func(entry string, index int) {
		moved++
		movedEntry, movedIndex = entry, index
	})

	idx := 2
	lst.AddEntry("alpha", &idx)

	assert.Equal(t, 0, added)
	assert.Equal(t, 1, moved)
	assert.Equal(t, "alpha", movedEntry)
	assert.Equal(t, 2, movedIndex)
	assert.Equal(t, []string{"beta", "gamma", "alpha"}, lst.Entries())
}

func TestList_RemoveEntryHonorsMatchingIndexHint(t *testing.T) {
	b := New()
	b.SeedList("queue", []string{"job", "other", "job"})
	c := dial(t, b)

	lst := c.List("queue")

	var removedIndex int
	lst.OnEntryRemoved(func(entry string, index int) { removedIndex = index })

	idx := 2
	lst.RemoveEntry("job", &idx)
	assert.Equal(t, 2, removedIndex)
	assert.Equal(t, []string{"job", "other"}, lst.Entries())
}

func TestList_RemoveEntryFallsBackToFirstOccurrence(t *testing.T) {
	b := New()
	b.SeedList("queue", []string{"job", "other", "job"})
	c := dial(t, b)

	lst := c.List("queue")

	// The hint points at a different entry, so it is ignored.
	idx := 1
	lst.RemoveEntry("job", &idx)
	assert.Equal(t, []string{"other", "job"}, lst.Entries())
}

func TestList_RemoveMissingEntryIsSilent(t *testing.T) {
	b := New()
	b.SeedList("rooms", []string{"alpha"})
	c := dial(t, b)

	lst := c.List("rooms")
	fired := 0
	lst.Subscribe(func([]string) { fired++ })
	require.Equal(t, 1, fired)

	lst.RemoveEntry("ghost", nil)
	assert.Equal(t, 2, fired, "mutation attempts still notify entries subscribers")
	assert.Equal(t, []string{"alpha"}, lst.Entries())
}

func TestList_SetEntriesReplacesWholesale(t *testing.T) {
	b := New()
	b.SeedList("rooms", []string{"alpha"})
	c := dial(t, b)

	lst := c.List("rooms")

	entryHooks := 0
	lst.OnEntryAdded(func(string, int) { entryHooks++ })
	lst.OnEntryRemoved(func(string, int) { entryHooks++ })

	var last []string
	lst.Subscribe(func(entries []string) { last = entries })

	lst.SetEntries([]string{"x", "y"})

	assert.Equal(t, []string{"x", "y"}, last)
	assert.Equal(t, 0, entryHooks, "wholesale replacement fires no entry-level hooks")
}

func TestList_FailedCreationReportsError(t *testing.T) {
	b := New()
	b.FailEntity("rooms", "NO_SUCH_LIST")
	c := dial(t, b)

	lst := c.List("rooms")

	ready := false
	lst.OnReady(func() { ready = true })
	var errMsg string
	lst.OnError(func(msg string) { errMsg = msg })

	assert.False(t, ready)
	assert.Equal(t, "NO_SUCH_LIST", errMsg)
	assert.Nil(t, lst.Entries())
}

func TestList_ClosedClientSubscriberSilenced(t *testing.T) {
	b := New()
	b.SeedList("rooms", []string{"alpha"})
	dial(t, b)
	mc := b.LastClient()
	c2 := dial(t, b)

	fired := 0
	mc.List("rooms").Subscribe(func([]string) { fired++ })
	require.Equal(t, 1, fired)
	mc.Close()

	c2.List("rooms").AddEntry("beta", nil)
	assert.Equal(t, 1, fired)
}

func TestList_DeleteNotifiesOtherHandlesOnly(t *testing.T) {
	b := New()
	c := dial(t, b)

	l1 := c.List("rooms")
	l2 := c.List("rooms")

	selfFired, otherFired := false, false
	l1.OnDelete(func() { selfFired = true })
	l2.OnDelete(func() { otherFired = true })

	l1.Delete()

	assert.False(t, selfFired)
	assert.True(t, otherFired)
}
