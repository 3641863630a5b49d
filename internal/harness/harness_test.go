package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaykit/relaykit/internal/event"
)

func TestRun_LoginAndRPC(t *testing.T) {
	scenario := &Scenario{
		Name:        "login-rpc",
		Description: "login then call the built-in add procedure",
		Actions: []map[string]any{
			{"action": "login", "auth": map[string]any{"user": "demo"}, "scope": "main"},
			{"action": "rpc.make", "method": "add", "data": map[string]any{"a": 2, "b": 3}, "scope": "main"},
		},
		Assertions: []Assertion{
			{Type: AssertStreamOrder, Kinds: []string{"login.success", "rpc.response"}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass)
	require.Len(t, result.Events, 2)
	assert.Equal(t, event.LoginSuccess, result.Events[0].Kind)
	assert.Equal(t, event.RPCResponse, result.Events[1].Kind)
	assert.EqualValues(t, 5, result.Events[1].Data)
}

func TestRun_SeededRecordFlow(t *testing.T) {
	scenario := &Scenario{
		Name:        "seeded-record",
		Description: "subscribe to a seeded record and mutate it",
		Seed: Seed{
			Records: map[string]map[string]any{
				"user/1": {"status": "idle"},
			},
		},
		Actions: []map[string]any{
			{"action": "login", "auth": map[string]any{}, "scope": "main"},
			{"action": "record.subscribe", "name": "user/1", "scope": "main"},
			{"action": "record.set", "name": "user/1", "data": map[string]any{"status": "busy"}, "scope": "main"},
		},
		Assertions: []Assertion{
			{Type: AssertStreamCount, Kind: "record.change", Count: 2},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	assert.Equal(t, map[string]any{"status": "idle"}, result.Events[1].Data)
	assert.Equal(t, map[string]any{"status": "busy"}, result.Events[2].Data)
}

func TestRun_SeedFaults(t *testing.T) {
	scenario := &Scenario{
		Name:        "faults",
		Description: "injected faults surface as error events",
		Seed: Seed{
			EntityErrors: map[string]string{"user/1": "STORAGE_FAIL"},
			RPCErrors:    map[string]string{"add": "PROVIDER_DOWN"},
		},
		Actions: []map[string]any{
			{"action": "login", "auth": map[string]any{}, "scope": "main"},
			{"action": "record.subscribe", "name": "user/1", "scope": "main"},
			{"action": "rpc.make", "method": "add", "data": map[string]any{"a": 1, "b": 2}, "scope": "main"},
		},
		Assertions: []Assertion{
			{Type: AssertStreamContains, Kind: "record.error", Error: "STORAGE_FAIL"},
			{Type: AssertStreamContains, Kind: "rpc.error", Error: "PROVIDER_DOWN"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_RejectedLogin(t *testing.T) {
	scenario := &Scenario{
		Name:        "rejected-login",
		Description: "the backend verdict decides which login event fires",
		Seed:        Seed{RejectLogin: true},
		Actions: []map[string]any{
			{"action": "login", "auth": map[string]any{}, "scope": "main"},
		},
		Assertions: []Assertion{
			{Type: AssertStreamContains, Kind: "login.failure"},
			{Type: AssertStreamCount, Kind: "login.success", Count: 0},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_FailedAssertion(t *testing.T) {
	scenario := &Scenario{
		Name:        "failing",
		Description: "an unmet assertion fails the result",
		Actions: []map[string]any{
			{"action": "login", "auth": map[string]any{}, "scope": "main"},
		},
		Assertions: []Assertion{
			{Type: AssertStreamContains, Kind: "rpc.response"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "not found in stream")
}

func TestRun_IsDeterministic(t *testing.T) {
	scenario := &Scenario{
		Name:        "determinism",
		Description: "two runs produce identical transcripts",
		Seed: Seed{
			Lists: map[string][]string{"rooms": {"alpha", "beta"}},
		},
		Actions: []map[string]any{
			{"action": "login", "auth": map[string]any{}, "scope": "main"},
			{"action": "list.subscribe", "name": "rooms", "scope": "main"},
			{"action": "list.addEntry", "name": "rooms", "entry": "gamma", "scope": "main"},
		},
		Assertions: []Assertion{
			{Type: AssertStreamContains, Kind: "list.entry-added"},
		},
	}

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	t1, err := Transcript(scenario.Name, first)
	require.NoError(t, err)
	t2, err := Transcript(scenario.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(t1), string(t2))
}

func TestTranscript_CanonicalBytes(t *testing.T) {
	result := NewResult([]event.Event{
		{Kind: event.LoginSuccess, Scope: "main", Seq: 1},
		{Kind: event.RPCResponse, Name: "add", Scope: "main", Seq: 2, Data: int64(5)},
	})

	out, err := Transcript("sample", result)
	require.NoError(t, err)

	want := `{"events":[{"kind":"login.success","scope":"main","seq":1},` +
		`{"data":5,"kind":"rpc.response","name":"add","scope":"main","seq":2}],` +
		`"scenario_name":"sample"}`
	assert.Equal(t, want, string(out))
}

func TestSessionTokens_DefaultPerLogin(t *testing.T) {
	scenario := &Scenario{
		Actions: []map[string]any{
			{"action": "login"},
			{"action": "logout"},
			{"action": "login"},
		},
	}
	assert.Equal(t, []string{"session-0001", "session-0002"}, sessionTokens(scenario))

	scenario.SessionTokens = []string{"fixed-1"}
	assert.Equal(t, []string{"fixed-1"}, sessionTokens(scenario))
}
