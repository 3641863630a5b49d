package harness

import "github.com/relaykit/relaykit/internal/event"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: true while no assertion has failed.
	Pass bool `json:"pass"`

	// Events is the full emitted event stream, in seq order.
	Events []event.Event `json:"events"`

	// Errors contains assertion failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result around the emitted stream.
func NewResult(events []event.Event) *Result {
	return &Result{
		Pass:   true,
		Events: events,
		Errors: []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// eventToMap flattens one event for canonical serialization. Zero-valued
// payload fields are omitted; Index and the booleans are included only
// for the kinds they are meaningful on, so absence stays distinguishable
// from a zero value.
func eventToMap(ev event.Event) map[string]any {
	m := map[string]any{
		"kind": string(ev.Kind),
		"seq":  ev.Seq,
	}
	if ev.Name != "" {
		m["name"] = ev.Name
	}
	if ev.Scope != "" {
		m["scope"] = ev.Scope
	}
	if ev.Data != nil {
		m["data"] = ev.Data
	}
	if ev.Error != "" {
		m["error"] = ev.Error
	}
	if ev.Entry != "" {
		m["entry"] = ev.Entry
	}
	switch ev.Kind {
	case event.ListEntryExisting, event.ListEntryAdded, event.ListEntryMoved, event.ListEntryRemoved:
		m["index"] = ev.Index
	case event.RecordListen, event.EventListen:
		m["match"] = ev.Match
		m["is_subscribed"] = ev.IsSubscribed
	case event.PresenceEvent:
		m["username"] = ev.Username
		m["is_online"] = ev.IsOnline
	case event.ConnectionState:
		m["state"] = ev.State
	}
	return m
}

// Transcript renders the result's event stream as a canonical JSON
// transcript, the same bytes the golden files hold.
func Transcript(scenarioName string, result *Result) ([]byte, error) {
	return MarshalCanonical(snapshotMap(scenarioName, result.Events))
}

// snapshotMap builds the canonicalizable transcript for golden
// comparison.
func snapshotMap(scenarioName string, events []event.Event) map[string]any {
	list := make([]any, len(events))
	for i, ev := range events {
		list[i] = eventToMap(ev)
	}
	return map[string]any{
		"scenario_name": scenarioName,
		"events":        list,
	}
}
