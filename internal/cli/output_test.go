package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitError_Error(t *testing.T) {
	e := NewExitError(ExitFailure, "assertions failed")
	assert.Equal(t, "assertions failed", e.Error())

	wrapped := WrapExitError(ExitCommandError, "failed to read file", errors.New("no such file"))
	assert.Equal(t, "failed to read file: no such file", wrapped.Error())
	assert.EqualError(t, errors.Unwrap(wrapped), "no such file")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "boom")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain error")))

	// ExitErrors survive wrapping.
	err := fmt.Errorf("context: %w", NewExitError(ExitCommandError, "inner"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestOutputFormatter_VerboseLogRouting(t *testing.T) {
	var out, errOut bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &out, ErrWriter: &errOut, Verbose: true}

	f.VerboseLog("processing %s", "file.yaml")

	assert.Empty(t, out.String(), "verbose output must not corrupt JSON")
	assert.Equal(t, "processing file.yaml\n", errOut.String())
}

func TestOutputFormatter_VerboseLogSilentByDefault(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	f.VerboseLog("hidden")
	assert.Empty(t, buf.String())
}
