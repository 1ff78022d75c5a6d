package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/gasunit/internal/testutil"
)

var testStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// createTestStore creates a file-backed store with deterministic IDs and a
// fixed clock.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path,
		WithIDGenerator(testutil.NewSequentialIDGenerator("run")),
		WithClock(func() time.Time { return testStart }),
	)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// insertTestRun writes a run row directly.
func insertTestRun(t *testing.T, s *Store, id string) {
	t.Helper()
	_, err := s.db.Exec(
		"INSERT INTO runs (id, source, started_at) VALUES (?, ?, ?)",
		id, "test", testStart.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("insert run %q: %v", id, err)
	}
}
