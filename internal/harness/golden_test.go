package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGolden_LoginRPCRoundtrip(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/login-rpc-roundtrip.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestGolden_RecordSubscribeChange(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/record-subscribe-change.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}
