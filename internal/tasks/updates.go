package tasks

import (
	"fmt"

	"github.com/desertthunder/galx/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchItems Phase = iota
	ResolveImage
	ProcessBatch
	UpdateItem
	WaitInterval
	Complete
)

func (p Phase) String() string {
	switch p {
	case FetchItems:
		return "fetch_items"
	case ResolveImage:
		return "resolve_image"
	case ProcessBatch:
		return "process_batch"
	case UpdateItem:
		return "update_item"
	case WaitInterval:
		return "wait_interval"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func fetchItemsUpdate(order string) ProgressUpdate {
	msg := "Fetching item ids..."
	if order != "" {
		msg = fmt.Sprintf("Fetching item ids (%s first)...", order)
	}
	return ProgressUpdate{Phase: FetchItems, Step: 0, Total: 1, Message: msg}
}

func resolveImageUpdate(target string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveImage,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Resolving image '%s'...", target),
	}
}

func batchUpdate(step, total int, batch models.Batch) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProcessBatch,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Batch %d/%d (%d items)", step, total, len(batch)),
		Data:    batch,
	}
}

func itemUpdate(step, total int, id models.ItemID) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UpdateItem,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Item %d", step, total, id),
	}
}

func waitUpdate(step, total int, interval fmt.Stringer) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WaitInterval,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Next batch in %s", interval),
	}
}

func completeUpdate(result *RunResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    result.Processed,
		Total:   result.Batches,
		Message: fmt.Sprintf("%d items, %d failed", result.Items, result.Failures),
		Data:    result,
	}
}
