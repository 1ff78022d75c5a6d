// Package store provides SQLite-backed run history for gasunit.
//
// A run is one invocation of the suite runner. Each test outcome of the run
// is appended as a row keyed by (run_id, seq), where seq is the position of
// the outcome within the run.
//
// # Ordering
//
//   - Outcomes are read back ORDER BY seq ASC, never by wall time
//   - Runs are listed newest first by insertion order (rowid)
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Outcomes must reference an existing run
//
// Run IDs come from an IDGenerator; the default generates random UUIDs.
package store
