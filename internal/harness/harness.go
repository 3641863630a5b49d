// Package harness executes scenario files against the real driver backed
// by the in-memory backend.
//
// A scenario seeds backend state, submits its action documents through
// the driver's public intake, runs the single-writer loop to completion,
// and then evaluates assertions (and optionally a golden transcript)
// against the drained event stream. The deterministic clock and fixed
// session tokens make transcripts byte-stable across runs.
package harness

import (
	"context"
	"fmt"

	"github.com/relaykit/relaykit/internal/driver"
	"github.com/relaykit/relaykit/internal/memback"
	"github.com/relaykit/relaykit/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory backend for isolation.
//
// Execution flow:
// 1. Create the backend and apply the seed (state and faults)
// 2. Submit every action document to the driver
// 3. Run the driver loop until the queue drains
// 4. Evaluate assertions against the drained event stream
func Run(scenario *Scenario) (*Result, error) {
	back := memback.New()
	applySeed(back, scenario.Seed)

	drv := driver.New(driver.Config{
		Endpoint: "mem://harness",
		Dialer:   back,
		Clock:    testutil.NewDeterministicClock(),
		Tokens:   driver.NewFixedGenerator(sessionTokens(scenario)...),
	})

	for _, doc := range scenario.Actions {
		// Unmatched documents drop silently, same as production intake.
		drv.SubmitDoc(doc)
	}
	drv.Stop()

	if err := drv.Run(context.Background()); err != nil {
		return nil, fmt.Errorf("driver run: %w", err)
	}

	result := NewResult(drv.Drain())
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// applySeed establishes backend state and injected faults.
func applySeed(back *memback.Backend, seed Seed) {
	for name, data := range seed.Records {
		value := make(map[string]any, len(data))
		for k, v := range data {
			value[k] = v
		}
		back.SeedRecord(name, value)
	}
	for name, entries := range seed.Lists {
		back.SeedList(name, entries)
	}
	back.SeedPresence(seed.Presence...)

	for name, msg := range seed.EntityErrors {
		back.FailEntity(name, msg)
	}
	for name, msg := range seed.WriteErrors {
		back.FailWrite(name, msg)
	}
	for method, msg := range seed.RPCErrors {
		msg := msg
		back.ProvideRPC(method, func(any) (any, string) { return nil, msg })
	}
	if seed.RejectLogin {
		back.RejectLogin(map[string]any{"reason": "rejected"})
	}
}

// sessionTokens returns the scenario's fixed tokens, defaulting to one
// numbered token per login action.
func sessionTokens(scenario *Scenario) []string {
	if len(scenario.SessionTokens) > 0 {
		return scenario.SessionTokens
	}
	var tokens []string
	for _, doc := range scenario.Actions {
		if doc["action"] == "login" {
			tokens = append(tokens, fmt.Sprintf("session-%04d", len(tokens)+1))
		}
	}
	return tokens
}
