package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/relaykit/relaykit/internal/harness"
	"github.com/relaykit/relaykit/internal/schema"
)

// ValidationResult holds validation results for one scenario file.
type ValidationResult struct {
	File   string                   `json:"file"`
	Valid  bool                     `json:"valid"`
	Errors []schema.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario-file>...",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario YAML files against the scenario schema.

Performs CUE schema validation followed by the strict structural checks the
harness itself applies, without executing any actions. Faster feedback than
running the scenario.

Exit codes:
  0 - All files valid
  1 - Validation failures found
  2 - Command error (file not found, unreadable)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	results := make([]ValidationResult, 0, len(paths))
	failed := false

	for _, path := range paths {
		formatter.VerboseLog("Validating %s", path)

		data, err := os.ReadFile(path)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read %s", path), err)
		}

		errs := schema.ValidateBytes(data)
		if len(errs) == 0 {
			// The schema admits documents the harness still rejects
			// (e.g. contradictory assertion fields); run its parse too.
			if _, err := harness.ParseScenario(data); err != nil {
				errs = append(errs, schema.ValidationError{Message: err.Error()})
			}
		}

		if len(errs) > 0 {
			failed = true
		}
		results = append(results, ValidationResult{
			File:   path,
			Valid:  len(errs) == 0,
			Errors: errs,
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
			return NewExitError(ExitFailure, "validation failed")
		}
		return nil
	}

	for _, res := range results {
		if res.Valid {
			fmt.Fprintf(formatter.Writer, "✓ %s\n", res.File)
			continue
		}
		fmt.Fprintf(formatter.Writer, "✗ %s\n", res.File)
		for _, e := range res.Errors {
			fmt.Fprintf(formatter.Writer, "  %s\n", e.Error())
		}
	}

	if failed {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}
