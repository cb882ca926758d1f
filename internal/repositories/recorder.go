package repositories

import (
	"context"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/tasks"
)

// JournalRecorder adapts a [JournalRepository] to [tasks.Recorder].
type JournalRecorder struct {
	repo *JournalRepository
}

// NewJournalRecorder wraps repo.
func NewJournalRecorder(repo *JournalRepository) *JournalRecorder {
	return &JournalRecorder{repo: repo}
}

var _ tasks.Recorder = (*JournalRecorder)(nil)

func (j *JournalRecorder) StartRun(ctx context.Context, info tasks.RunInfo) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	run, err := j.repo.StartRun(string(info.Kind), info.Target, info.Params)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

func (j *JournalRecorder) RecordChange(ctx context.Context, runID string, outcome tasks.Outcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return j.repo.RecordChange(&models.Change{
		RunID:   runID,
		ItemID:  outcome.ItemID,
		MediaID: outcome.MediaID,
		Action:  string(outcome.Action),
		Status:  outcome.Status,
		Message: outcome.Message,
	})
}

func (j *JournalRecorder) FinishRun(ctx context.Context, runID string, items, failures int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return j.repo.FinishRun(runID, items, failures)
}
