package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/galx/internal/shared"
)

// Run is one journaled run: a run once, an auto run start or a bulk update.
type Run struct {
	ID         string
	Kind       string
	Target     string
	Params     string
	Items      int
	Failures   int
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Validate checks the fields required to persist a run.
func (r *Run) Validate() error {
	if r.Kind == "" {
		return fmt.Errorf("%w: run kind is required", shared.ErrValidation)
	}
	if r.StartedAt.IsZero() {
		return fmt.Errorf("%w: run start time is required", shared.ErrValidation)
	}
	return nil
}

// Duration returns how long the run took, or zero when it has not finished.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Change is the journaled outcome for one item inside a run.
type Change struct {
	ID        string
	RunID     string
	Sequence  int
	ItemID    ItemID
	MediaID   MediaID
	Action    string
	Status    int
	Message   string
	CreatedAt time.Time
}

// Validate checks the fields required to persist a change.
func (c *Change) Validate() error {
	switch {
	case c.RunID == "":
		return fmt.Errorf("%w: change run id is required", shared.ErrValidation)
	case c.ItemID == 0:
		return fmt.Errorf("%w: change item id is required", shared.ErrValidation)
	case c.Action == "":
		return fmt.Errorf("%w: change action is required", shared.ErrValidation)
	}
	return nil
}
