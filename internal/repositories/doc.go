// Package repositories implements SQLite persistence for the change journal.
//
// Key Implementations:
//   - [JournalRepository] : Run and change rows with history queries
//   - [JournalRecorder] : Adapts the repository to the scheduler's tasks.Recorder interface
//
// The journal defaults to an in-memory database pinned to a single connection, so history lives for the process lifetime.
// A file path keeps an audit trail across restarts; auto-run sessions are never restored from it.
//
// Sequence numbers order changes within a run independently of UUIDs and timestamps.
// [NextSequence] computes them inside the insert transaction.
package repositories
