package driver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDriverError_Error(t *testing.T) {
	err := newEntityError(Identity{Name: "user/1", Scope: "main"}, "STORAGE_FAIL")
	assert.Equal(t, "ENTITY_FAILED: STORAGE_FAIL (name=user/1)", err.Error())

	bare := &DriverError{Code: ErrCodeNoSession, Message: "no client established"}
	assert.Equal(t, "NO_SESSION: no client established", bare.Error())
}

func TestIsSessionClosed(t *testing.T) {
	closed := newSessionClosedError(Identity{Name: "user/1"})
	assert.True(t, IsSessionClosed(closed))

	assert.True(t, IsSessionClosed(fmt.Errorf("resolve: %w", closed)), "wrapped errors are recognized")
	assert.False(t, IsSessionClosed(newEntityError(Identity{}, "boom")))
	assert.False(t, IsSessionClosed(errors.New("plain")))
	assert.False(t, IsSessionClosed(nil))
}
