package tasks

import (
	"fmt"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
)

// Partition splits ids into consecutive batches of size; the last batch may be shorter.
// Concatenating the batches reproduces ids exactly.
func Partition(ids []models.ItemID, size int) ([]models.Batch, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive, got %d", shared.ErrValidation, size)
	}

	batches := make([]models.Batch, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batch := make(models.Batch, end-start)
		copy(batch, ids[start:end])
		batches = append(batches, batch)
	}
	return batches, nil
}
