package harness

import (
	"fmt"
	"strings"

	"github.com/relaykit/relaykit/internal/event"
)

// AssertionError is returned when an assertion fails.
// It includes the full stream so failures are debuggable in isolation.
type AssertionError struct {
	Type     string        // Assertion type for categorization
	Expected string        // Human-readable expected outcome
	Actual   string        // Human-readable actual outcome
	Events   []event.Event // Full stream for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull stream:\n")
	for i, ev := range e.Events {
		fmt.Fprintf(&buf, "  [%d] %s name=%q scope=%q\n", i+1, ev.Kind, ev.Name, ev.Scope)
	}
	return buf.String()
}

// assertStreamContains checks that an event of the kind (narrowed by
// name/scope/error when given) appears in the stream.
func assertStreamContains(events []event.Event, assertion Assertion) error {
	for _, ev := range events {
		if matchEvent(ev, assertion) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertStreamContains,
		Expected: describeMatch(assertion),
		Actual:   "not found in stream",
		Events:   events,
	}
}

// assertStreamOrder checks that kinds appear in the given order. Kinds
// don't need to be consecutive (intervening events are allowed).
func assertStreamOrder(events []event.Event, assertion Assertion) error {
	positions := make(map[string]int)
	for i, ev := range events {
		for _, kind := range assertion.Kinds {
			if string(ev.Kind) == kind && positions[kind] == 0 {
				positions[kind] = i + 1 // 1-indexed for readability
			}
		}
	}

	for _, kind := range assertion.Kinds {
		if positions[kind] == 0 {
			return &AssertionError{
				Type:     AssertStreamOrder,
				Expected: fmt.Sprintf("all kinds present: %v", assertion.Kinds),
				Actual:   fmt.Sprintf("missing kind: %s", kind),
				Events:   events,
			}
		}
	}

	for i := 1; i < len(assertion.Kinds); i++ {
		prev := assertion.Kinds[i-1]
		curr := assertion.Kinds[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertStreamOrder,
				Expected: fmt.Sprintf("kinds in order: %v", assertion.Kinds),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Events: events,
			}
		}
	}
	return nil
}

// assertStreamCount checks that the kind appears exactly Count times.
func assertStreamCount(events []event.Event, assertion Assertion) error {
	count := 0
	for _, ev := range events {
		if string(ev.Kind) == assertion.Kind {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertStreamCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Kind),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Events:   events,
		}
	}
	return nil
}

// matchEvent applies subset semantics: only the assertion fields that
// were given participate in the match.
func matchEvent(ev event.Event, assertion Assertion) bool {
	if string(ev.Kind) != assertion.Kind {
		return false
	}
	if assertion.Name != "" && ev.Name != assertion.Name {
		return false
	}
	if assertion.Scope != "" && ev.Scope != assertion.Scope {
		return false
	}
	if assertion.Error != "" && ev.Error != assertion.Error {
		return false
	}
	return true
}

func describeMatch(assertion Assertion) string {
	desc := fmt.Sprintf("event %s", assertion.Kind)
	if assertion.Name != "" {
		desc += fmt.Sprintf(" name=%q", assertion.Name)
	}
	if assertion.Scope != "" {
		desc += fmt.Sprintf(" scope=%q", assertion.Scope)
	}
	if assertion.Error != "" {
		desc += fmt.Sprintf(" error=%q", assertion.Error)
	}
	return desc
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertStreamContains:
			err = assertStreamContains(result.Events, assertion)
		case AssertStreamOrder:
			err = assertStreamOrder(result.Events, assertion)
		case AssertStreamCount:
			err = assertStreamCount(result.Events, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}
	return errors
}
