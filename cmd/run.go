package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
	"github.com/desertthunder/galx/internal/tasks"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// RunOnce applies the mutation to the first batch of items.
func (r *Runner) RunOnce(ctx context.Context, cmd *cli.Command) error {
	opts, err := r.runOpts(cmd)
	if err != nil {
		return err
	}

	stop := r.stream()
	result, err := r.scheduler.RunOnce(ctx, nil, opts)
	stop()
	if err != nil {
		return err
	}

	r.writeSummary(result)
	return nil
}

// RunAuto processes every batch with a pause between batches until finished or interrupted.
//
// SIGINT or SIGTERM stops the run after the in-flight batch.
func (r *Runner) RunAuto(ctx context.Context, cmd *cli.Command) error {
	opts, err := r.runOpts(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	stop := r.stream()
	result, err := r.scheduler.AutoRun(ctx, r.session, nil, opts)
	stop()
	if err != nil {
		return err
	}

	r.writeSummary(result)
	return nil
}

// Bulk appends image URLs to every item, or to the first --limit items.
func (r *Runner) Bulk(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}
	urls := cmd.StringSlice("url")
	if len(urls) == 0 {
		return fmt.Errorf("%w: at least one --url is required", shared.ErrMissingArgument)
	}

	limit, err := models.ParseReplaceLimit(cmd.String("limit"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := tasks.BulkOpts{
		BatchSize: r.batchSize(cmd),
		URLs:      urls,
		Limit:     limit,
	}

	stop := r.stream()
	result, err := r.scheduler.BulkUpdate(ctx, nil, opts)
	stop()

	r.writeSummary(result)
	return err
}

// runOpts builds scheduler options from flags, falling back to the [run] config section.
func (r *Runner) runOpts(cmd *cli.Command) (tasks.RunOpts, error) {
	if err := r.config.Validate(); err != nil {
		return tasks.RunOpts{}, err
	}
	image := cmd.String("image")
	mediaID := cmd.Int("media-id")
	if image == "" && mediaID <= 0 {
		return tasks.RunOpts{}, fmt.Errorf("%w: --image or --media-id is required", shared.ErrMissingArgument)
	}

	req, err := buildRequest(
		image,
		firstNonEmpty(cmd.String("mode"), r.config.Run.Mode),
		firstNonEmpty(cmd.String("position"), r.config.Run.Position),
		cmd.String("index"),
	)
	if err != nil {
		return tasks.RunOpts{}, err
	}

	order, err := models.ParseOrder(firstNonEmpty(cmd.String("order"), r.config.Run.Order))
	if err != nil {
		return tasks.RunOpts{}, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	interval := cmd.Duration("interval")
	if interval <= 0 {
		interval = r.config.Run.Interval.Duration
	}

	if mediaID > 0 && req.Target.Value == "" {
		req.Target = models.MediaRef{Kind: models.MediaRefTitle, Value: fmt.Sprintf("#%d", mediaID)}
	}

	return tasks.RunOpts{
		BatchSize: r.batchSize(cmd),
		Order:     order,
		Request:   req,
		MediaID:   models.MediaID(mediaID),
		Interval:  interval,
	}, nil
}

func buildRequest(image, mode, position, index string) (models.MutationRequest, error) {
	var req models.MutationRequest

	if image != "" {
		ref, err := models.ParseMediaRef(image)
		if err != nil {
			return req, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		req.Target = ref
	}

	m, err := models.ParseMode(mode)
	if err != nil {
		return req, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	req.Mode = m

	pos, err := models.ParsePosition(position, index)
	if err != nil {
		return req, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	req.Position = pos

	return req, nil
}

func (r *Runner) batchSize(cmd *cli.Command) int {
	if n := cmd.Int("batch-size"); n > 0 {
		return n
	}
	return r.config.Run.BatchSize
}

// stream copies progress lines to the output until the returned function is called.
// It ignores cancellation so lines from a batch finishing after an interrupt still appear as they are written.
// The returned function flushes any lines written after the last wake-up.
func (r *Runner) stream() func() {
	seen := r.plog.Len()
	done := make(chan struct{})
	finished := make(chan struct{})

	flush := func() {
		for _, e := range r.plog.Since(seen) {
			r.writePlain("%s\n", e.Text)
			seen = e.Seq
		}
	}

	go func() {
		defer close(finished)
		for {
			select {
			case <-r.plog.Notify():
				flush()
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		<-finished
		flush()
	}
}

func (r *Runner) writeSummary(result *tasks.RunResult) {
	if result == nil {
		return
	}

	status := "done"
	switch {
	case result.Finished:
		status = "finished"
	case result.Stopped:
		status = "stopped"
	}

	r.writePlainln("%s: %s items, %s failed, %d/%d batches processed",
		status,
		humanize.Comma(int64(result.Items)),
		humanize.Comma(int64(result.Failures)),
		result.Processed,
		result.Batches,
	)
	if result.RunID != "" {
		r.writePlain("run: %s\n", result.RunID)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// exitCode maps an error to a process exit status: 2 for usage errors, 1 otherwise.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, shared.ErrMissingArgument), errors.Is(err, shared.ErrInvalidArgument):
		return 2
	default:
		return 1
	}
}
