package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/gasunit/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	RunID    string
	Limit    int
}

// RunDetail is the JSON form of one run with its outcomes.
type RunDetail struct {
	Run      store.Run       `json:"run"`
	Outcomes []store.Outcome `json:"outcomes"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs",
		Long: `List runs recorded with "gasunit run --db", newest first, or show the
outcome messages of one run.

Examples:
  gasunit history --db ./history.db
  gasunit history --db ./history.db --limit 5
  gasunit history --db ./history.db --run 2f1c0d0e-...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show outcomes of this run")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 for all)")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	// Open would create a missing database; history only reads.
	if _, err := os.Stat(opts.Database); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "database not found", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer st.Close()

	if opts.RunID != "" {
		return showRun(ctx, st, opts.RunID, formatter)
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to list runs", err)
	}

	if formatter.IsJSON() {
		return formatter.Success(runs)
	}

	w := formatter.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tPASSED\tFAILED\tERRORED\tSOURCE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.Passed, r.Failed, r.Errored, r.Source)
	}
	return tw.Flush()
}

func showRun(ctx context.Context, st *store.Store, runID string, formatter *OutputFormatter) error {
	run, err := st.GetRun(ctx, runID)
	if errors.Is(err, store.ErrRunNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("run %q not found", runID), nil)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to read run", err)
	}

	outcomes, err := st.ReadOutcomes(ctx, runID)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to read outcomes", err)
	}

	if formatter.IsJSON() {
		return formatter.Success(RunDetail{Run: run, Outcomes: outcomes})
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Run: %s\n", run.ID)
	fmt.Fprintf(w, "Started: %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Source: %s\n", run.Source)
	fmt.Fprintf(w, "Passed: %d  Failed: %d  Errored: %d\n", run.Passed, run.Failed, run.Errored)
	suite := ""
	for _, o := range outcomes {
		if o.Suite != suite {
			suite = o.Suite
			fmt.Fprintf(w, "\n[%s]\n", suite)
		}
		fmt.Fprintln(w, o.Message)
	}
	return nil
}
