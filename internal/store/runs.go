package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/gasunit/pkg/harness"
)

// ErrRunNotFound is returned when a run ID has no row.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded runner invocation with per-status counts.
type Run struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	StartedAt time.Time `json:"started_at"`
	Passed    int       `json:"passed"`
	Failed    int       `json:"failed"`
	Errored   int       `json:"errored"`
}

// Total returns the number of outcomes recorded for the run.
func (r Run) Total() int {
	return r.Passed + r.Failed + r.Errored
}

// Outcome is one stored test outcome.
type Outcome struct {
	RunID   string         `json:"run_id"`
	Seq     int64          `json:"seq"`
	Suite   string         `json:"suite"`
	Test    string         `json:"test"`
	Status  harness.Status `json:"status"`
	Message string         `json:"message"`
}

// BeginRun creates a run with a fresh ID and the current time.
func (s *Store) BeginRun(ctx context.Context, source string) (Run, error) {
	run := Run{
		ID:        s.ids.Generate(),
		Source:    source,
		StartedAt: s.now().UTC().Truncate(time.Second),
	}
	if err := s.WriteRun(ctx, run); err != nil {
		return Run{}, err
	}
	return run, nil
}

// WriteRun inserts a run row. Counts on run are ignored; they are derived
// from stored outcomes on read.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return fmt.Errorf("write run: empty id")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, source, started_at)
		VALUES (?, ?, ?)
	`,
		run.ID,
		run.Source,
		run.StartedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteOutcome appends an outcome to a run and returns its seq. The run must
// exist (foreign key constraint).
func (s *Store) WriteOutcome(ctx context.Context, runID, suite string, o harness.Outcome) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) + 1 FROM outcomes WHERE run_id = ?
	`, runID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("write outcome: next seq: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO outcomes (run_id, seq, suite, test, status, message)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		runID,
		seq,
		suite,
		o.Test,
		o.Status.String(),
		o.Message(),
	)
	if err != nil {
		return 0, fmt.Errorf("write outcome: %w", err)
	}
	return seq, nil
}

const runColumns = `
	r.id, r.source, r.started_at,
	(SELECT COUNT(*) FROM outcomes o WHERE o.run_id = r.id AND o.status = 'passed'),
	(SELECT COUNT(*) FROM outcomes o WHERE o.run_id = r.id AND o.status = 'failed'),
	(SELECT COUNT(*) FROM outcomes o WHERE o.run_id = r.id AND o.status = 'errored')
`

// GetRun returns one run, or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs r WHERE r.id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. A limit of zero or less
// returns every run.
//
// Returns an empty slice (not nil) when there are no runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs r
		ORDER BY r.rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadOutcomes returns the outcomes of a run in seq order.
//
// Returns an empty slice (not nil) if the run has no outcomes.
func (s *Store) ReadOutcomes(ctx context.Context, runID string) ([]Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, suite, test, status, message
		FROM outcomes
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := []Outcome{}
	for rows.Next() {
		var (
			o      Outcome
			status string
		)
		if err := rows.Scan(&o.RunID, &o.Seq, &o.Suite, &o.Test, &status, &o.Message); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		if o.Status, err = harness.ParseStatus(status); err != nil {
			return nil, fmt.Errorf("scan outcome %s/%d: %w", o.RunID, o.Seq, err)
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return outcomes, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run       Run
		startedAt string
	)
	if err := row.Scan(&run.ID, &run.Source, &startedAt, &run.Passed, &run.Failed, &run.Errored); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	t, err := time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return Run{}, fmt.Errorf("scan run %s: started_at: %w", run.ID, err)
	}
	run.StartedAt = t
	return run, nil
}
