package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relaykit/relaykit/internal/harness"
)

// ScenarioResult holds the outcome of one scenario run.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Events int      `json:"events"`
	Errors []string `json:"errors,omitempty"`
}

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario <scenario-file>...",
		Short: "Run scenario files and evaluate their assertions",
		Long: `Run scenario YAML files against the in-memory backend.

Each scenario seeds backend state, submits its action stream through the
driver, and evaluates assertions over the emitted events.

Exit codes:
  0 - All scenarios passed
  1 - One or more assertions failed
  2 - Command error (file not found, malformed scenario)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runScenarios(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	results := make([]ScenarioResult, 0, len(paths))
	failed := false

	for _, path := range paths {
		scenario, err := harness.LoadScenario(path)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to load %s", path), err)
		}

		formatter.VerboseLog("Running scenario %s (%s)", scenario.Name, path)

		result, err := harness.Run(scenario)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to run %s", scenario.Name), err)
		}

		if !result.Pass {
			failed = true
		}
		results = append(results, ScenarioResult{
			Name:   scenario.Name,
			Pass:   result.Pass,
			Events: len(result.Events),
			Errors: result.Errors,
		})
	}

	if formatter.Format == "json" {
		status := "ok"
		if failed {
			status = "error"
		}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(CLIResponse{Status: status, Data: results}); err != nil {
			return err
		}
		if failed {
			return NewExitError(ExitFailure, "scenario assertions failed")
		}
		return nil
	}

	for _, res := range results {
		status := "✓"
		if !res.Pass {
			status = "✗"
		}
		fmt.Fprintf(formatter.Writer, "%s %s (%d events)\n", status, res.Name, res.Events)
		for _, msg := range res.Errors {
			fmt.Fprintf(formatter.Writer, "  %s\n", msg)
		}
	}

	if failed {
		return NewExitError(ExitFailure, "scenario assertions failed")
	}
	fmt.Fprintf(formatter.Writer, "✓ %d scenario(s) passed\n", len(results))
	return nil
}
