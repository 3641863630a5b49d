package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplay_Deterministic(t *testing.T) {
	out, err := execute(t, "replay", "testdata/login-rpc.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Scenario: login-rpc (2 events)")
	assert.Contains(t, out, "Replay verified deterministic")
}

func TestReplay_WithTranscript(t *testing.T) {
	out, err := execute(t, "replay", "testdata/login-rpc.yaml", "--transcript")
	require.NoError(t, err)
	assert.Contains(t, out, `"scenario_name":"login-rpc"`)
	assert.Contains(t, out, `"kind":"rpc.response"`)
}

func TestReplay_MissingFile(t *testing.T) {
	_, err := execute(t, "replay", "testdata/no-such-file.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReplay_JSONOutput(t *testing.T) {
	out, err := execute(t, "--format", "json", "replay", "testdata/login-rpc.yaml", "--transcript")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "login-rpc", data["name"])
	assert.Equal(t, true, data["deterministic"])
	assert.True(t, strings.HasPrefix(data["transcript"].(string), `{"events":[`))
}

func TestReplay_RequiresExactlyOneFile(t *testing.T) {
	_, err := execute(t, "replay")
	require.Error(t, err)

	_, err = execute(t, "replay", "a.yaml", "b.yaml")
	require.Error(t, err)
}
