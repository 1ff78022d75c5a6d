package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/gasunit/internal/store"
	"github.com/roach88/gasunit/pkg/harness"
	"github.com/roach88/gasunit/pkg/value"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database  string // optional run history database
	Filter    string // glob applied to file names inside directories
	Normalize bool   // NFC-normalize strings before comparing

	// IDGenerator overrides run IDs (for testing). Defaults to UUIDs.
	IDGenerator store.IDGenerator
}

// SuiteResult is the JSON form of one executed suite.
type SuiteResult struct {
	Name     string            `json:"name"`
	Path     string            `json:"path"`
	Outcomes []harness.Outcome `json:"outcomes"`
}

// RunResult is the JSON form of a run.
type RunResult struct {
	RunID   string        `json:"run_id,omitempty"`
	Suites  []SuiteResult `json:"suites"`
	Passed  int           `json:"passed"`
	Failed  int           `json:"failed"`
	Errored int           `json:"errored"`
	Total   int           `json:"total"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <path>...",
		Short: "Run suite files",
		Long: `Run suite files and print one message per test.

Each path is a suite file (.yaml, .yml, .json, .cue) or a directory that is
searched recursively. Group labels and PASSED messages go to stdout; FAILED
and ERROR messages go to stderr.

Exit codes:
  0 - All tests passed
  1 - One or more tests failed or errored
  2 - Command error (unloadable suites, database errors, etc.)

Examples:
  gasunit run ./suites
  gasunit run ./suites --filter "math-*"
  gasunit run arithmetic.yaml --db ./history.db
  gasunit run ./suites --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuites(cmd.Context(), opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record outcomes in this SQLite database")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter suite files in directories by glob pattern")
	cmd.Flags().BoolVar(&opts.Normalize, "nfc", false, "compare strings after NFC normalization")

	return cmd
}

func runSuites(ctx context.Context, opts *RunOptions, paths []string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := formatter.Logger()

	suites, loadErrs := LoadSuites(paths, opts.Filter, LoadModeCollectAll)
	if len(loadErrs) > 0 {
		return reportLoadErrors(formatter, loadErrs)
	}
	logger.Debug("suites loaded", "count", len(suites))

	var (
		st  *store.Store
		run store.Run
	)
	if opts.Database != "" {
		var err error
		st, run, err = beginRun(ctx, opts, paths)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to record run", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		logger.Debug("recording run", "run_id", run.ID, "db", opts.Database)
	}

	result := RunResult{RunID: run.ID, Suites: []SuiteResult{}}
	var writeErr error
	for _, s := range suites {
		sr := SuiteResult{Name: s.Name, Path: s.Path, Outcomes: []harness.Outcome{}}

		hopts := []harness.Option{
			harness.WithLogger(logger.With("suite", s.Name)),
			harness.WithObserver(func(o harness.Outcome) {
				sr.Outcomes = append(sr.Outcomes, o)
				if st == nil || writeErr != nil {
					return
				}
				if _, err := st.WriteOutcome(ctx, run.ID, s.Name, o); err != nil {
					writeErr = err
				}
			}),
		}
		if opts.Normalize {
			hopts = append(hopts, harness.WithComparer(value.NewComparer(value.WithNormalization())))
		}
		if formatter.IsJSON() {
			discard := func(string) {}
			hopts = append(hopts,
				harness.WithLogSink(discard),
				harness.WithSuccessSink(discard),
				harness.WithFailureSink(discard),
			)
		} else {
			hopts = append(hopts,
				harness.WithLogSink(harness.WriterSink(cmd.OutOrStdout())),
				harness.WithSuccessSink(harness.WriterSink(cmd.OutOrStdout())),
				harness.WithFailureSink(harness.WriterSink(cmd.ErrOrStderr())),
			)
		}

		s.Run(harness.New(hopts...))
		tally(&result, sr.Outcomes)
		result.Suites = append(result.Suites, sr)
	}

	if writeErr != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to record outcomes", writeErr)
	}

	if formatter.IsJSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), summaryLine(result))
	}

	if result.Failed+result.Errored > 0 {
		return reported(NewExitError(ExitFailure, fmt.Sprintf("%d of %d tests did not pass", result.Failed+result.Errored, result.Total)))
	}
	return nil
}

func beginRun(ctx context.Context, opts *RunOptions, paths []string) (*store.Store, store.Run, error) {
	var storeOpts []store.Option
	if opts.IDGenerator != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(opts.IDGenerator))
	}

	st, err := store.Open(opts.Database, storeOpts...)
	if err != nil {
		return nil, store.Run{}, err
	}
	run, err := st.BeginRun(ctx, strings.Join(paths, " "))
	if err != nil {
		st.Close()
		return nil, store.Run{}, err
	}
	return st, run, nil
}

func tally(result *RunResult, outcomes []harness.Outcome) {
	for _, o := range outcomes {
		switch o.Status {
		case harness.Passed:
			result.Passed++
		case harness.Failed:
			result.Failed++
		case harness.Errored:
			result.Errored++
		}
		result.Total++
	}
}

func summaryLine(result RunResult) string {
	line := fmt.Sprintf("%d passed, %d failed, %d errored (%d total)",
		result.Passed, result.Failed, result.Errored, result.Total)
	if result.RunID != "" {
		line += " run " + result.RunID
	}
	return line
}

// reportLoadErrors prints every load error and returns a command error.
func reportLoadErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.IsJSON() {
		issues := make([]LoadIssue, 0, len(errs))
		for _, err := range errs {
			issues = append(issues, newLoadIssue(err))
		}
		_ = formatter.Error(errorCode(errs[0]), "failed to load suites", issues)
	} else {
		for _, err := range errs {
			fmt.Fprintln(formatter.GetErrWriter(), err)
		}
	}
	return reported(NewExitError(ExitCommandError, fmt.Sprintf("%d suite(s) failed to load", len(errs))))
}
