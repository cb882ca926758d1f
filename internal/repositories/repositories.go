// package repositories provides the sqlite change journal.
//
// The journal records runs and per-item outcomes so history can be reviewed;
// it is never used to restore auto-run progress.
package repositories

import (
	"database/sql"
	"fmt"
)

// NextSequence returns the next change sequence number for runID inside tx.
//
// Sequence numbers give changes a stable, human-readable order within a run (change #3 of run X).
func NextSequence(tx *sql.Tx, runID string) (int, error) {
	var sequence int
	err := tx.QueryRow("SELECT COALESCE(MAX(sequence), 0) + 1 FROM changes WHERE run_id = ?", runID).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}
	return sequence, nil
}
