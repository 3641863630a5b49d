package driver

import (
	"errors"
	"fmt"
)

// DriverError represents a failure detected while mediating an action.
//
// Driver errors include:
//   - Session closed: a pending handle resolution was superseded by a
//     login/logout before the backend answered
//   - Entity failed: the backend reported an error while creating a
//     record or list handle
//   - No session: an entity operation arrived before any login
//
// DriverError includes structured fields for diagnostics.
type DriverError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Name identifies the affected entity, when there is one.
	Name string

	// Scope is the logical view the triggering action addressed.
	Scope string
}

// ErrorCode categorizes driver errors.
type ErrorCode string

const (
	// ErrCodeSessionClosed indicates the owning session was torn down
	// while the operation was in flight.
	ErrCodeSessionClosed ErrorCode = "SESSION_CLOSED"

	// ErrCodeEntityFailed indicates the backend reported an error before
	// the entity handle became ready.
	ErrCodeEntityFailed ErrorCode = "ENTITY_FAILED"

	// ErrCodeNoSession indicates an operation arrived with no client
	// established.
	ErrCodeNoSession ErrorCode = "NO_SESSION"
)

// Error implements the error interface.
func (e *DriverError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (name=%s)", e.Code, e.Message, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsSessionClosed returns true if the error marks a superseded session.
// Uses errors.As to handle wrapped errors.
func IsSessionClosed(err error) bool {
	var de *DriverError
	if errors.As(err, &de) {
		return de.Code == ErrCodeSessionClosed
	}
	return false
}

// newSessionClosedError creates a DriverError for a torn-down session.
func newSessionClosedError(id Identity) *DriverError {
	return &DriverError{
		Code:    ErrCodeSessionClosed,
		Message: "session closed while handle resolution was pending",
		Name:    id.Name,
		Scope:   id.Scope,
	}
}

// newEntityError creates a DriverError wrapping a backend-reported
// handle-creation failure.
func newEntityError(id Identity, backendErr string) *DriverError {
	return &DriverError{
		Code:    ErrCodeEntityFailed,
		Message: backendErr,
		Name:    id.Name,
		Scope:   id.Scope,
	}
}
