package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/galx/internal/formatter"
	"github.com/desertthunder/galx/internal/shared"
	"github.com/urfave/cli/v3"
)

// History lists journaled runs, or the changes of one run with --run.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	if r.journal == nil {
		return fmt.Errorf("%w: change journal is not open", shared.ErrServiceUnavailable)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if runID := cmd.String("run"); runID != "" {
		return r.runHistory(runID, format)
	}

	runs, err := r.journal.ListRuns(cmd.Int("limit"))
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case formatter.FormatCSV:
		data, err = formatter.RunsToCSV(runs)
	case formatter.FormatJSON:
		data, err = formatter.RunsToJSON(runs)
		data = append(data, '\n')
	default:
		data = formatter.RunsToText(runs, time.Now())
	}
	if err != nil {
		return err
	}

	return r.writePlain("%s", data)
}

func (r *Runner) runHistory(runID string, format formatter.Format) error {
	run, err := r.journal.GetRun(runID)
	if err != nil {
		return err
	}

	changes, err := r.journal.ListChanges(runID)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case formatter.FormatCSV:
		data, err = formatter.ChangesToCSV(changes)
	case formatter.FormatJSON:
		data, err = formatter.ChangesToJSON(changes)
		data = append(data, '\n')
	default:
		data = formatter.RunToText(run, changes)
	}
	if err != nil {
		return err
	}

	return r.writePlain("%s", data)
}
