package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a replayable driver session: backend seed state, an
// ordered action stream, and assertions over the resulting event stream.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Seed establishes backend state before the first action runs.
	Seed Seed `yaml:"seed,omitempty"`

	// SessionTokens are the fixed session tokens handed out per login, in
	// order. Defaults to session-0001, session-0002, ... so transcripts
	// stay deterministic without spelling them out.
	SessionTokens []string `yaml:"session_tokens,omitempty"`

	// Actions is the inbound action stream, one loosely-typed document per
	// entry, exactly as the driver would receive them.
	Actions []map[string]any `yaml:"actions"`

	// Assertions validate the emitted event stream.
	// Supported types: stream_contains, stream_order, stream_count
	Assertions []Assertion `yaml:"assertions"`
}

// Seed describes pre-established backend state and injected faults.
type Seed struct {
	// Records maps record names to their initial values.
	Records map[string]map[string]any `yaml:"records,omitempty"`

	// Lists maps list names to their initial entries.
	Lists map[string][]string `yaml:"lists,omitempty"`

	// Presence lists users already on the roster.
	Presence []string `yaml:"presence,omitempty"`

	// EntityErrors makes handle creation fail for the named records/lists.
	EntityErrors map[string]string `yaml:"entity_errors,omitempty"`

	// WriteErrors makes acknowledged writes fail for the named records.
	WriteErrors map[string]string `yaml:"write_errors,omitempty"`

	// RPCErrors makes the named procedures answer with an error.
	RPCErrors map[string]string `yaml:"rpc_errors,omitempty"`

	// RejectLogin makes every login fail.
	RejectLogin bool `yaml:"reject_login,omitempty"`
}

// Assertion validates the emitted event stream.
type Assertion struct {
	// Type specifies the assertion type:
	// - "stream_contains": an event of Kind (with matching name/scope/error
	//   when given) appears in the stream
	// - "stream_order": events of the given kinds appear in order
	// - "stream_count": events of Kind appear exactly Count times
	Type string `yaml:"type"`

	// Kind is the event kind (used by stream_contains, stream_count).
	Kind string `yaml:"kind,omitempty"`

	// Name narrows stream_contains to events carrying this name.
	Name string `yaml:"name,omitempty"`

	// Scope narrows stream_contains to events carrying this scope.
	Scope string `yaml:"scope,omitempty"`

	// Error narrows stream_contains to events carrying this error text.
	Error string `yaml:"error,omitempty"`

	// Count is the expected number of occurrences (used by stream_count).
	Count int `yaml:"count,omitempty"`

	// Kinds is the expected kind order (used by stream_order).
	Kinds []string `yaml:"kinds,omitempty"`
}

// Assertion type constants.
const (
	AssertStreamContains = "stream_contains"
	AssertStreamOrder    = "stream_order"
	AssertStreamCount    = "stream_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Actions) == 0 {
		return fmt.Errorf("actions list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, doc := range s.Actions {
		if _, ok := doc["action"].(string); !ok {
			return fmt.Errorf("actions[%d]: action field is required", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertStreamContains:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for stream_contains", index)
		}
	case AssertStreamOrder:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for stream_order", index)
		}
	case AssertStreamCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for stream_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for stream_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
