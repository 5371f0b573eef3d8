// Package store provides SQLite-backed run history for pigspec suites.
//
// Each executed case is one row in runs; each failed output file adds its
// first mismatching line pair to mismatches. History is append-only:
//
//   - Runs are keyed by a UUIDv7 id and written idempotently
//   - Ordering uses the seq column (insertion order), never timestamps
//   - Runs with the same fingerprint came from an identical case definition
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
