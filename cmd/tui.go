package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/galx/internal/shared"
	"github.com/desertthunder/galx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI with the run flags as its parameters.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	opts, err := r.runOpts(cmd)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(firstNonEmpty(r.config.Log.File, "./tmp/galx-tui.log"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.config.Log.Level)
	r.SetLogger(fileLogger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewModel(ctx, r.scheduler, r.session, opts)
	if r.journal != nil {
		model.WithHistory(r.journal)
	}
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
