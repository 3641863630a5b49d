package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordInterest_Defaults(t *testing.T) {
	set := recordInterest(nil)

	for _, name := range []string{"existing", "change", "discard", "delete", "error"} {
		assert.True(t, set[name], "default interest %q should be on", name)
	}
}

func TestRecordInterest_Overrides(t *testing.T) {
	set := recordInterest(map[string]bool{"change": false, "existing": false})

	assert.False(t, set[interestChange])
	assert.False(t, set[interestExisting])
	assert.True(t, set[interestDiscard])
	assert.True(t, set[interestDelete])
	assert.True(t, set[interestError])
}

func TestRecordInterest_UnknownKeysIgnored(t *testing.T) {
	set := recordInterest(map[string]bool{"entry-added": true, "bogus": true})

	_, ok := set["entry-added"]
	assert.False(t, ok, "list-only interest must not leak into record sets")
	_, ok = set["bogus"]
	assert.False(t, ok)
}

func TestListInterest_Defaults(t *testing.T) {
	set := listInterest(nil)

	for _, name := range []string{
		"change", "entry-existing", "entry-added", "entry-moved",
		"entry-removed", "discard", "delete", "error",
	} {
		assert.True(t, set[name], "default interest %q should be on", name)
	}
}

func TestListInterest_Overrides(t *testing.T) {
	set := listInterest(map[string]bool{"entry-existing": false, "change": false})

	assert.False(t, set[interestEntryExisting])
	assert.False(t, set[interestChange])
	assert.True(t, set[interestEntryAdded])
}
