package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/services"
	"github.com/desertthunder/galx/internal/shared"
)

// DefaultInterval is the pause between auto-run batches.
const DefaultInterval = 5 * time.Second

// RunKind names the flow that produced a run.
type RunKind string

const (
	RunOnce RunKind = "once"
	RunAuto RunKind = "auto"
	RunBulk RunKind = "bulk"
)

// RunInfo describes a run for the change journal.
type RunInfo struct {
	Kind   RunKind
	Target string
	Params string
}

// Recorder receives run and item outcomes. Failures are logged and never abort a run.
type Recorder interface {
	StartRun(ctx context.Context, info RunInfo) (string, error)
	RecordChange(ctx context.Context, runID string, outcome Outcome) error
	FinishRun(ctx context.Context, runID string, items, failures int) error
}

// RunOpts configures a one-shot or auto run.
type RunOpts struct {
	BatchSize int
	Order     models.Order
	Request   models.MutationRequest
	MediaID   models.MediaID // skips resolution of Request.Target when non-zero
	Interval  time.Duration  // pause between auto-run batches, defaults to [DefaultInterval]
}

func (o RunOpts) params() string {
	return fmt.Sprintf("batch_size=%d mode=%s position=%s offset=%s order=%s",
		o.BatchSize, o.Request.Mode, o.Request.Position, o.Request.Position.Offset, o.Order)
}

func (o RunOpts) header(title string) string {
	return fmt.Sprintf("--- %s: Batch size %d, Image '%s', Mode %s, Position %s, Order %s ---",
		title, o.BatchSize, o.Request.Target, o.Request.Mode, o.Request.Position, o.Order)
}

// BulkOpts configures the append-new-urls bulk flow.
type BulkOpts struct {
	BatchSize int
	URLs      []string
	Limit     models.ReplaceLimit
}

// RunResult summarizes a finished, stopped or aborted run.
type RunResult struct {
	RunID     string
	Batches   int // batches in the partition
	Processed int // batches processed by this call
	Items     int
	Failures  int
	Finished  bool
	Stopped   bool
}

// Scheduler drives batch runs over the catalog. All remote calls happen sequentially on the calling goroutine.
type Scheduler struct {
	catalog  services.Catalog
	media    services.MediaIndex
	mutator  *GalleryMutator
	log      *ProgressLog
	recorder Recorder
	logger   *log.Logger
}

// NewScheduler wires a scheduler. recorder may be nil.
func NewScheduler(catalog services.Catalog, media services.MediaIndex, prober services.Prober, plog *ProgressLog, recorder Recorder, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Scheduler{
		catalog:  catalog,
		media:    media,
		mutator:  NewGalleryMutator(catalog, media, prober, plog),
		log:      plog,
		recorder: recorder,
		logger:   logger,
	}
}

// Log returns the progress log the scheduler writes to.
func (s *Scheduler) Log() *ProgressLog { return s.log }

// RunOnce fetches the ordered ids, resolves the target once and applies the mutation to the first batch only.
// Nothing is kept between calls.
func (s *Scheduler) RunOnce(ctx context.Context, progress chan<- ProgressUpdate, opts RunOpts) (*RunResult, error) {
	s.log.Printf("%s", opts.header("Run Once"))

	if opts.BatchSize <= 0 {
		err := fmt.Errorf("%w: batch size must be positive, got %d", shared.ErrValidation, opts.BatchSize)
		s.log.Errorf("Error: %v", err)
		return nil, err
	}

	sendProgress(progress, fetchItemsUpdate(string(opts.Order)))
	ids, err := s.catalog.ListItemIDs(ctx, opts.Order)
	if err != nil {
		s.log.Errorf("Error: %v", err)
		return nil, err
	}
	if len(ids) == 0 {
		s.log.Printf("No products found!")
		return &RunResult{}, nil
	}

	batches, err := Partition(ids, opts.BatchSize)
	if err != nil {
		s.log.Errorf("Error: %v", err)
		return nil, err
	}

	mid, err := s.resolveTarget(ctx, progress, opts, "Batch skipped.")
	if err != nil {
		return nil, err
	}

	result := &RunResult{Batches: len(batches)}
	result.RunID = s.startRun(ctx, RunInfo{Kind: RunOnce, Target: opts.Request.Target.String(), Params: opts.params()})

	sendProgress(progress, batchUpdate(1, len(batches), batches[0]))
	items, failures := s.processBatch(context.WithoutCancel(ctx), progress, result.RunID, batches[0], mid, opts.Request)
	s.log.Printf("--- Batch done (%d products) ---", len(batches[0]))

	result.Processed = 1
	result.Items = items
	result.Failures = failures
	s.finishRun(ctx, result)
	sendProgress(progress, completeUpdate(result))
	return result, nil
}

// AutoRun processes the session's batches one per tick, sleeping opts.Interval between ticks.
//
// The first start on an empty session fetches and partitions the ids; later starts resume from the stored index.
// The target is resolved on every start. [Session.Stop] or ctx cancellation ends the loop after the in-flight batch.
// When every batch is processed the running flag is cleared but the batches and index are kept,
// so a restart without [Session.Reset] reports finished immediately.
func (s *Scheduler) AutoRun(ctx context.Context, session *Session, progress chan<- ProgressUpdate, opts RunOpts) (*RunResult, error) {
	gen, stop, err := session.begin()
	if err != nil {
		s.log.Errorf("Error: %v", err)
		return nil, err
	}
	defer session.end(gen)

	// Cancellation behaves like Stop: the in-flight batch finishes with an uncancelled context.
	release := context.AfterFunc(ctx, func() { session.cancel(gen) })
	defer release()
	work := context.WithoutCancel(ctx)

	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	if !session.hasBatches() {
		if opts.BatchSize <= 0 {
			err := fmt.Errorf("%w: batch size must be positive, got %d", shared.ErrValidation, opts.BatchSize)
			s.log.Errorf("Error: %v", err)
			return nil, err
		}

		sendProgress(progress, fetchItemsUpdate(string(opts.Order)))
		ids, err := s.catalog.ListItemIDs(ctx, opts.Order)
		if err != nil {
			s.log.Errorf("Error: %v", err)
			return nil, err
		}

		if len(ids) == 0 {
			s.log.Printf("No products found!")
		}

		batches, err := Partition(ids, opts.BatchSize)
		if err != nil {
			s.log.Errorf("Error: %v", err)
			return nil, err
		}
		s.logger.Debug("partitioned items", "items", len(ids), "batches", len(batches))

		if !session.load(gen, batches) {
			return &RunResult{Stopped: true}, nil
		}
	}

	mid, err := s.resolveTarget(ctx, progress, opts, "Auto Run skipped.")
	if err != nil {
		return nil, err
	}
	session.setTarget(gen, mid)

	result := &RunResult{Batches: session.State().Batches}
	result.RunID = s.startRun(ctx, RunInfo{Kind: RunAuto, Target: opts.Request.Target.String(), Params: opts.params()})
	defer func() {
		s.finishRun(ctx, result)
		sendProgress(progress, completeUpdate(result))
	}()

	for {
		if ctx.Err() != nil {
			session.cancel(gen)
		}

		batch, idx, total, state := session.next(gen)
		switch state {
		case tickReset:
			result.Stopped = true
			return result, nil
		case tickStopped:
			s.log.Printf("--- Auto Run stopped by user ---")
			result.Stopped = true
			return result, nil
		case tickFinished:
			s.log.Printf("--- Auto Run finished ---")
			result.Finished = true
			return result, nil
		}

		s.log.Printf("--- Auto Run: Batch %d/%d ---", idx+1, total)
		sendProgress(progress, batchUpdate(idx+1, total, batch))

		items, failures := s.processBatch(work, progress, result.RunID, batch, mid, opts.Request)
		result.Processed++
		result.Items += items
		result.Failures += failures
		s.log.Printf("--- Batch %d done ---", idx+1)

		if !session.advance(gen) {
			continue
		}

		sendProgress(progress, waitUpdate(idx+1, total, opts.Interval))
		timer := time.NewTimer(opts.Interval)
		select {
		case <-timer.C:
		case <-stop:
			timer.Stop()
		case <-ctx.Done():
			timer.Stop()
		}
	}
}

// Reset clears the session and logs it.
func (s *Scheduler) Reset(session *Session) {
	session.Reset()
	s.log.Printf("--- Progress reset ---")
}

// BulkUpdate appends urls to every item of the catalog, up to opts.Limit items, batch by batch.
// Cancellation is checked between items; the item in flight always completes.
func (s *Scheduler) BulkUpdate(ctx context.Context, progress chan<- ProgressUpdate, opts BulkOpts) (*RunResult, error) {
	s.log.Printf("--- Bulk Update: Batch size %d, Limit %s, Images %d ---", opts.BatchSize, opts.Limit, len(opts.URLs))

	if len(opts.URLs) == 0 {
		err := fmt.Errorf("%w: no image URLs given", shared.ErrValidation)
		s.log.Errorf("Error: %v", err)
		return nil, err
	}

	sendProgress(progress, fetchItemsUpdate(""))
	ids, err := s.catalog.ListAllItemIDs(ctx)
	if err != nil {
		s.log.Errorf("Error: %v", err)
		return nil, err
	}
	if len(ids) == 0 {
		s.log.Printf("No products found!")
		return &RunResult{}, nil
	}

	batches, err := Partition(opts.Limit.Apply(ids), opts.BatchSize)
	if err != nil {
		s.log.Errorf("Error: %v", err)
		return nil, err
	}

	result := &RunResult{Batches: len(batches)}
	result.RunID = s.startRun(ctx, RunInfo{
		Kind:   RunBulk,
		Target: fmt.Sprintf("%d urls", len(opts.URLs)),
		Params: fmt.Sprintf("batch_size=%d limit=%s", opts.BatchSize, opts.Limit),
	})
	defer func() {
		s.finishRun(ctx, result)
		sendProgress(progress, completeUpdate(result))
	}()

	for i, batch := range batches {
		s.log.Printf("--- Bulk Update: Batch %d/%d ---", i+1, len(batches))
		sendProgress(progress, batchUpdate(i+1, len(batches), batch))

		for j, id := range batch {
			if err := ctx.Err(); err != nil {
				s.log.Warnf("--- Bulk Update cancelled ---")
				result.Stopped = true
				return result, err
			}

			sendProgress(progress, itemUpdate(j+1, len(batch), id))
			outcome := s.mutator.AppendNewURLs(context.WithoutCancel(ctx), id, opts.URLs)
			s.record(ctx, result.RunID, outcome)
			result.Items++
			if outcome.Failed() {
				result.Failures++
			}
		}
		result.Processed++
	}

	s.log.Printf("--- Bulk Update finished (%d products) ---", result.Items)
	result.Finished = true
	return result, nil
}

// resolveTarget resolves the request target once per run. An unresolved target aborts the run.
func (s *Scheduler) resolveTarget(ctx context.Context, progress chan<- ProgressUpdate, opts RunOpts, skipped string) (models.MediaID, error) {
	target := opts.Request.Target.String()
	if opts.MediaID != 0 {
		s.log.Printf("[LOG] Using image ID %d", opts.MediaID)
		return opts.MediaID, nil
	}

	sendProgress(progress, resolveImageUpdate(target))
	id, ok, err := s.media.Resolve(ctx, opts.Request.Target)
	if err != nil {
		s.log.Errorf("Image '%s' could not be resolved: %v. %s", target, err, skipped)
		return 0, err
	}
	if !ok {
		s.log.Warnf("Image with title '%s' not found. %s", target, skipped)
		return 0, fmt.Errorf("%w: image %q", shared.ErrNotFound, target)
	}

	s.log.Printf("[LOG] Found image ID %d for title: %s", id, target)
	return id, nil
}

// processBatch applies the mutation to every item in order. Items are never skipped mid-batch,
// so callers pass a context that cancellation cannot reach.
func (s *Scheduler) processBatch(ctx context.Context, progress chan<- ProgressUpdate, runID string, batch models.Batch, mid models.MediaID, req models.MutationRequest) (items, failures int) {
	for i, id := range batch {
		sendProgress(progress, itemUpdate(i+1, len(batch), id))
		outcome := s.mutator.ApplyByID(ctx, id, mid, req)
		s.record(ctx, runID, outcome)
		items++
		if outcome.Failed() {
			failures++
		}
	}
	return items, failures
}

func (s *Scheduler) startRun(ctx context.Context, info RunInfo) string {
	if s.recorder == nil {
		return ""
	}
	id, err := s.recorder.StartRun(context.WithoutCancel(ctx), info)
	if err != nil {
		s.logger.Warn("failed to journal run", "kind", info.Kind, "error", err)
		return ""
	}
	return id
}

func (s *Scheduler) record(ctx context.Context, runID string, outcome Outcome) {
	if s.recorder == nil || runID == "" {
		return
	}
	if err := s.recorder.RecordChange(context.WithoutCancel(ctx), runID, outcome); err != nil {
		s.logger.Warn("failed to journal change", "item", outcome.ItemID, "error", err)
	}
}

func (s *Scheduler) finishRun(ctx context.Context, result *RunResult) {
	if s.recorder == nil || result.RunID == "" {
		return
	}
	if err := s.recorder.FinishRun(context.WithoutCancel(ctx), result.RunID, result.Items, result.Failures); err != nil {
		s.logger.Warn("failed to journal run result", "run", result.RunID, "error", err)
	}
}
