package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidFile(t *testing.T) {
	out, err := execute(t, "validate", "testdata/login-rpc.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ testdata/login-rpc.yaml")
}

func TestValidate_SchemaViolation(t *testing.T) {
	out, err := execute(t, "validate", "testdata/bad-schema.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ testdata/bad-schema.yaml")
}

func TestValidate_MissingFile(t *testing.T) {
	_, err := execute(t, "validate", "testdata/no-such-file.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidate_MixedFilesStillReportAll(t *testing.T) {
	out, err := execute(t, "validate", "testdata/login-rpc.yaml", "testdata/bad-schema.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✓ testdata/login-rpc.yaml")
	assert.Contains(t, out, "✗ testdata/bad-schema.yaml")
}

func TestValidate_JSONOutput(t *testing.T) {
	out, err := execute(t, "--format", "json", "validate", "testdata/login-rpc.yaml")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	results, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, results, 1)
	entry := results[0].(map[string]any)
	assert.Equal(t, true, entry["valid"])
}
