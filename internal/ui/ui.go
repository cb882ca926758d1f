package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/desertthunder/galx/internal/formatter"
	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/tasks"
)

// chrome is the number of rows taken by the header, status line and help.
const chrome = 6

// historyLimit caps the runs listed by the history key.
const historyLimit = 10

// RunLister lists journaled runs, newest first.
type RunLister interface {
	ListRuns(limit int) ([]models.Run, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	scheduler *tasks.Scheduler
	session   *tasks.Session
	opts      tasks.RunOpts
	log       *tasks.ProgressLog
	progress  chan tasks.ProgressUpdate
	seen      int
	lines     []string
	last      tasks.ProgressUpdate
	once      bool
	result    *tasks.RunResult
	history   RunLister
	viewport  viewport.Model
	ready     bool
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model. Every run started from the model uses opts.
func NewModel(ctx context.Context, scheduler *tasks.Scheduler, session *tasks.Session, opts tasks.RunOpts) *Model {
	return &Model{
		ctx:       ctx,
		scheduler: scheduler,
		session:   session,
		opts:      opts,
		log:       scheduler.Log(),
		progress:  make(chan tasks.ProgressUpdate, 50),
		viewport:  viewport.New(80, 20),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// WithHistory lets the history key list runs journaled by this process.
func (m *Model) WithHistory(history RunLister) *Model {
	m.history = history
	return m
}

// Init pulls the existing log lines and starts listening for progress updates.
// Handling the first log message arms the single log waiter.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return logUpdatedMsg() },
		m.waitForProgress(),
	)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chrome, 1)
		m.help.Width = msg.Width
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		switch msg.kind {
		case MsgLogUpdated:
			m.pull()
			return m, m.waitForLog()
		case MsgProgressUpdate:
			m.last = msg.data.(tasks.ProgressUpdate)
			return m, m.waitForProgress()
		case MsgRunComplete:
			done := msg.data.(runComplete)
			if done.kind == tasks.RunOnce {
				m.once = false
			}
			if done.err == nil {
				m.result = done.result
			}
			m.pull()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the header, status line, log and help.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("galx"))
	b.WriteString("  ")
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(styles.status.Render(m.statusLine()))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))

	return b.String()
}

// Lines returns the rendered log lines received so far.
func (m *Model) Lines() []string {
	return m.lines
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.session.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.once):
		return m, m.runOnce()
	case key.Matches(msg, m.keys.auto):
		return m, m.autoRun()
	case key.Matches(msg, m.keys.stop):
		m.session.Stop()
		return m, nil
	case key.Matches(msg, m.keys.history):
		m.showHistory()
		return m, nil
	case key.Matches(msg, m.keys.reset):
		m.scheduler.Reset(m.session)
		m.result = nil
		m.last = tasks.ProgressUpdate{}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) runOnce() tea.Cmd {
	if m.once || m.session.State().Active {
		m.log.Errorf("Error: a run is already in progress")
		return nil
	}
	m.once = true

	ctx, sched, progress, opts := m.ctx, m.scheduler, m.progress, m.opts
	return func() tea.Msg {
		result, err := sched.RunOnce(ctx, progress, opts)
		return runCompleteMsg(tasks.RunOnce, result, err)
	}
}

func (m *Model) autoRun() tea.Cmd {
	if m.once {
		m.log.Errorf("Error: a run is already in progress")
		return nil
	}

	ctx, sched, session, progress, opts := m.ctx, m.scheduler, m.session, m.progress, m.opts
	return func() tea.Msg {
		result, err := sched.AutoRun(ctx, session, progress, opts)
		return runCompleteMsg(tasks.RunAuto, result, err)
	}
}

// showHistory writes the most recent journaled runs to the log.
func (m *Model) showHistory() {
	if m.history == nil {
		m.log.Warnf("History unavailable: no journal is open")
		return
	}

	runs, err := m.history.ListRuns(historyLimit)
	if err != nil {
		m.log.Errorf("Error: %v", err)
		return
	}

	m.log.Printf("--- History ---")
	for line := range strings.SplitSeq(string(formatter.RunsToText(runs, time.Now())), "\n") {
		if line != "" {
			m.log.Printf("%s", line)
		}
	}
}

func (m *Model) waitForLog() tea.Cmd {
	notify, ctx := m.log.Notify(), m.ctx
	return func() tea.Msg {
		select {
		case <-notify:
			return logUpdatedMsg()
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, ctx := m.progress, m.ctx
	return func() tea.Msg {
		select {
		case update := <-progress:
			return progressUpdateMsg(update)
		case <-ctx.Done():
			return nil
		}
	}
}

// pull appends every entry written since the last pull.
func (m *Model) pull() {
	entries := m.log.Since(m.seen)
	if len(entries) == 0 {
		return
	}
	for _, e := range entries {
		m.lines = append(m.lines, styles.line(e))
	}
	m.seen = entries[len(entries)-1].Seq
	m.refresh()
}

func (m *Model) refresh() {
	follow := m.viewport.AtBottom() || !m.ready
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	if follow {
		m.viewport.GotoBottom()
	}
}

func (m *Model) header() string {
	o := m.opts
	interval := o.Interval
	if interval <= 0 {
		interval = tasks.DefaultInterval
	}
	target := o.Request.Target.String()
	if o.MediaID != 0 {
		target = fmt.Sprintf("#%d", o.MediaID)
	}
	return fmt.Sprintf("batch %d | image '%s' | %s at %s | %s first | every %s",
		o.BatchSize, target, o.Request.Mode, o.Request.Position, o.Order, interval)
}

func (m *Model) statusLine() string {
	status := StatusLine(m.session.State(), m.once)
	if m.result != nil {
		status += fmt.Sprintf(" | last run: %s items, %s failed",
			humanize.Comma(int64(m.result.Items)), humanize.Comma(int64(m.result.Failures)))
	}
	if m.last.Message != "" && (m.once || m.session.State().Running) {
		status += " | " + m.last.Message
	}
	return status
}

// StatusLine summarizes the session for display: idle, running once, auto-running, stopped or finished.
func StatusLine(state tasks.SessionState, once bool) string {
	switch {
	case once:
		return "running once"
	case state.Running && state.Batches == 0:
		return "auto-running"
	case state.Running:
		return fmt.Sprintf("auto-running batch %d/%d", min(state.Index+1, state.Batches), state.Batches)
	case state.Active:
		return "stopping"
	case state.Batches > 0 && state.Index >= state.Batches:
		return "finished"
	case state.Batches > 0:
		return fmt.Sprintf("stopped at batch %d/%d", state.Index+1, state.Batches)
	default:
		return "idle"
	}
}
