package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
)

// JournalRepository persists [models.Run] and [models.Change] rows.
type JournalRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewJournalRepository creates a new [JournalRepository] with the given database connection
func NewJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{db: db, now: time.Now}
}

// StartRun inserts a new run with a generated ID and the current time.
func (r *JournalRepository) StartRun(kind, target, params string) (*models.Run, error) {
	run := &models.Run{
		ID:        shared.GenerateID(),
		Kind:      kind,
		Target:    target,
		Params:    params,
		StartedAt: r.now().UTC(),
	}

	if err := run.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO runs (id, kind, target, params, started_at) VALUES (?, ?, ?, ?, ?)
	`

	if _, err := r.db.Exec(query, run.ID, run.Kind, run.Target, run.Params, run.StartedAt); err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	return run, nil
}

// FinishRun stores the totals and finish time of a run.
func (r *JournalRepository) FinishRun(id string, items, failures int) error {
	query := `
		UPDATE runs SET items = ?, failures = ?, finished_at = ? WHERE id = ?
	`

	result, err := r.db.Exec(query, items, failures, r.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: run %s", shared.ErrNotFound, id)
	}

	return nil
}

// RecordChange inserts a change with a generated ID and the next sequence number of its run.
func (r *JournalRepository) RecordChange(change *models.Change) error {
	if err := change.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := NextSequence(tx, change.RunID)
	if err != nil {
		return err
	}

	change.ID = shared.GenerateID()
	change.Sequence = sequence
	change.CreatedAt = r.now().UTC()

	query := `
		INSERT INTO changes (id, run_id, sequence, item_id, media_id, action, status, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		change.ID, change.RunID, change.Sequence, change.ItemID, change.MediaID,
		change.Action, change.Status, change.Message, change.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert change: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit change: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (r *JournalRepository) GetRun(id string) (*models.Run, error) {
	query := `
		SELECT id, kind, target, params, items, failures, started_at, finished_at
		FROM runs
		WHERE id = ?
	`

	run, err := scanRun(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first. A non-positive limit returns all runs.
func (r *JournalRepository) ListRuns(limit int) ([]models.Run, error) {
	query := `
		SELECT id, kind, target, params, items, failures, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC, rowid DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

// ListChanges returns the changes of a run in sequence order.
func (r *JournalRepository) ListChanges(runID string) ([]models.Change, error) {
	query := `
		SELECT id, run_id, sequence, item_id, media_id, action, status, message, created_at
		FROM changes
		WHERE run_id = ?
		ORDER BY sequence ASC
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query changes: %w", err)
	}
	defer rows.Close()

	var changes []models.Change
	for rows.Next() {
		var c models.Change
		err := rows.Scan(&c.ID, &c.RunID, &c.Sequence, &c.ItemID, &c.MediaID, &c.Action, &c.Status, &c.Message, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan change: %w", err)
		}
		changes = append(changes, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating changes: %w", err)
	}
	return changes, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*models.Run, error) {
	var (
		run        models.Run
		finishedAt sql.NullTime
	)

	err := row.Scan(&run.ID, &run.Kind, &run.Target, &run.Params, &run.Items, &run.Failures, &run.StartedAt, &finishedAt)
	if err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}
	return &run, nil
}
