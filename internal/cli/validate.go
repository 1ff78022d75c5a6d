package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Filter string
}

// SuiteSummary describes a suite that loaded cleanly.
type SuiteSummary struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Groups int    `json:"groups"`
	Tests  int    `json:"tests"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool           `json:"valid"`
	Suites []SuiteSummary `json:"suites"`
	Errors []LoadIssue    `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <path>...",
		Short: "Check suite files without running them",
		Long: `Parse suite files and check them against the suite schema without
running any test. Every file is checked; all problems are reported.

Exit codes:
  0 - All suites valid
  1 - One or more suites invalid`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter suite files in directories by glob pattern")

	return cmd
}

func runValidate(opts *ValidateOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	suites, loadErrs := LoadSuites(paths, opts.Filter, LoadModeCollectAll)

	result := ValidationResult{
		Valid:  len(loadErrs) == 0,
		Suites: make([]SuiteSummary, 0, len(suites)),
	}
	for _, s := range suites {
		formatter.VerboseLog("Validated %s", s.Path)
		result.Suites = append(result.Suites, SuiteSummary{
			Name:   s.Name,
			Path:   s.Path,
			Groups: len(s.Groups),
			Tests:  s.Len(),
		})
	}
	for _, err := range loadErrs {
		result.Errors = append(result.Errors, newLoadIssue(err))
	}

	if formatter.IsJSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		outputValidateText(cmd, result, loadErrs)
	}

	if !result.Valid {
		return reported(NewExitError(ExitFailure, fmt.Sprintf("%d suite error(s)", len(loadErrs))))
	}
	return nil
}

func outputValidateText(cmd *cobra.Command, result ValidationResult, errs []error) {
	w := cmd.OutOrStdout()
	for _, s := range result.Suites {
		fmt.Fprintf(w, "✓ %s (%d tests)\n", s.Path, s.Tests)
	}
	for _, err := range errs {
		fmt.Fprintf(w, "✗ %v\n", err)
	}

	if result.Valid {
		fmt.Fprintln(w, "✓ All suites valid")
		return
	}
	fmt.Fprintf(w, "✗ Validation failed with %d error(s)\n", len(errs))
}
