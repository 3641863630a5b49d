package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relaykit/relaykit/internal/harness"
)

// ReplayResult holds the replay outcome for one scenario.
type ReplayResult struct {
	Name          string `json:"name"`
	Events        int    `json:"events"`
	Deterministic bool   `json:"deterministic"`
	Transcript    string `json:"transcript,omitempty"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	var showTranscript bool

	cmd := &cobra.Command{
		Use:   "replay <scenario-file>",
		Short: "Replay a scenario and verify determinism",
		Long: `Replay a scenario twice and verify the event transcripts are identical.

The scenario runs against two fresh in-memory backends with identical
seeds, deterministic clocks, and fixed session tokens; any byte-level
difference between the two canonical transcripts means non-deterministic
behavior.

Exit codes:
  0 - Replay is deterministic
  1 - Determinism verification failed
  2 - Command error (file not found, malformed scenario)

Examples:
  relaykit replay scenarios/chat.yaml
  relaykit replay scenarios/chat.yaml --transcript --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(rootOpts, args[0], showTranscript, cmd)
		},
	}

	cmd.Flags().BoolVar(&showTranscript, "transcript", false, "print the canonical event transcript")

	return cmd
}

func runReplay(opts *RootOptions, path string, showTranscript bool, cmd *cobra.Command) error {
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to load %s", path), err)
	}

	first, err := harness.Run(scenario)
	if err != nil {
		return WrapExitError(ExitCommandError, "first replay failed", err)
	}
	second, err := harness.Run(scenario)
	if err != nil {
		return WrapExitError(ExitCommandError, "second replay failed", err)
	}

	transcript1, err := harness.Transcript(scenario.Name, first)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to render transcript", err)
	}
	transcript2, err := harness.Transcript(scenario.Name, second)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to render transcript", err)
	}

	result := ReplayResult{
		Name:          scenario.Name,
		Events:        len(first.Events),
		Deterministic: bytes.Equal(transcript1, transcript2),
	}
	if showTranscript {
		result.Transcript = string(transcript1)
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplayText(cmd, result, showTranscript)
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}
	if !result.Deterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_DETERMINISM",
			Message: "determinism verification failed",
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if !result.Deterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, showTranscript bool) error {
	w := cmd.OutOrStdout()

	status := "✓"
	if !result.Deterministic {
		status = "✗"
	}
	fmt.Fprintf(w, "%s Scenario: %s (%d events)\n", status, result.Name, result.Events)

	if showTranscript {
		fmt.Fprintln(w, result.Transcript)
	}

	if !result.Deterministic {
		fmt.Fprintln(w, "✗ Determinism verification failed")
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	fmt.Fprintln(w, "✓ Replay verified deterministic")
	return nil
}
