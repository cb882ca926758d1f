package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/tasks"
	tu "github.com/desertthunder/galx/internal/testing"
)

var errCatalogDown = errors.New("catalog down")

// downCatalog fails every listing so runs end right after they start.
type downCatalog struct{}

func (downCatalog) ListItemIDs(context.Context, models.Order) ([]models.ItemID, error) {
	return nil, errCatalogDown
}

func (downCatalog) ListAllItemIDs(context.Context) ([]models.ItemID, error) {
	return nil, errCatalogDown
}

func (downCatalog) GetItem(context.Context, models.ItemID) (*models.Item, error) {
	return nil, errCatalogDown
}

func (downCatalog) PutGallery(context.Context, models.ItemID, []models.ImageRef) (int, error) {
	return 0, errCatalogDown
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	return newTestModelContext(t, context.Background())
}

func newTestModelContext(t *testing.T, ctx context.Context) *Model {
	t.Helper()
	plog := tasks.NewProgressLog(nil)
	sched := tasks.NewScheduler(downCatalog{}, nil, nil, plog, nil, nil)
	opts := tasks.RunOpts{
		BatchSize: 10,
		Order:     models.OrderOldest,
		Request: models.MutationRequest{
			Mode:     models.ModeAdd,
			Target:   models.MediaRef{Kind: models.MediaRefTitle, Value: "Logo"},
			Position: models.Position{Kind: models.PositionEnd},
		},
	}
	return NewModel(ctx, sched, tasks.NewSession(), opts)
}

func TestInit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := newTestModelContext(t, ctx)

	batch, ok := m.Init()().(tea.BatchMsg)
	if !ok {
		t.Fatal("Init() should return a batch")
	}
	if len(batch) != 2 {
		t.Fatalf("Init() returned %d commands, want 2", len(batch))
	}

	logMsgs := 0
	for _, cmd := range batch {
		if msg, ok := cmd().(Msg); ok && msg.kind == MsgLogUpdated {
			logMsgs++
		}
	}
	if logMsgs != 1 {
		t.Errorf("expected exactly one log command, got %d", logMsgs)
	}
}

// fakeHistory lists fixed runs.
type fakeHistory struct {
	runs []models.Run
	err  error
}

func (h fakeHistory) ListRuns(limit int) ([]models.Run, error) {
	return h.runs, h.err
}

func keyPress(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name  string
		state tasks.SessionState
		once  bool
		want  string
	}{
		{"idle", tasks.SessionState{}, false, "idle"},
		{"running once", tasks.SessionState{}, true, "running once"},
		{"fetching", tasks.SessionState{Running: true, Active: true}, false, "auto-running"},
		{"auto running", tasks.SessionState{Batches: 4, Index: 1, Running: true, Active: true}, false, "auto-running batch 2/4"},
		{"stopping", tasks.SessionState{Batches: 4, Index: 2, Active: true}, false, "stopping"},
		{"stopped", tasks.SessionState{Batches: 4, Index: 2}, false, "stopped at batch 3/4"},
		{"finished", tasks.SessionState{Batches: 4, Index: 4}, false, "finished"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusLine(tt.state, tt.once); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestModel(t *testing.T) {
	t.Run("pulls log lines on notify", func(t *testing.T) {
		m := newTestModel(t)
		m.log.Printf("first")
		m.log.Warnf("second")

		m.Update(logUpdatedMsg())
		if len(m.Lines()) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(m.Lines()))
		}

		m.log.Printf("third")
		m.Update(logUpdatedMsg())
		tu.AssertContains(t, m.Lines(), "third")
		if len(m.Lines()) != 3 {
			t.Errorf("expected lines to be pulled once, got %d", len(m.Lines()))
		}
	})

	t.Run("history key lists journaled runs", func(t *testing.T) {
		m := newTestModel(t)
		m.WithHistory(fakeHistory{runs: []models.Run{
			{ID: "run-abc", Kind: "auto", Items: 4, StartedAt: time.Now().Add(-time.Minute)},
		}})
		m.Update(keyPress("h"))
		m.pull()

		lines := strings.Join(m.Lines(), "\n")
		for _, want := range []string{"--- History ---", "Runs: 1", "run-abc"} {
			if !strings.Contains(lines, want) {
				t.Errorf("expected %q in log:\n%s", want, lines)
			}
		}
	})

	t.Run("history key without journal", func(t *testing.T) {
		m := newTestModel(t)
		m.Update(keyPress("h"))
		m.pull()
		tu.AssertContains(t, m.Lines(), "History unavailable")
	})

	t.Run("history key reports errors", func(t *testing.T) {
		m := newTestModel(t)
		m.WithHistory(fakeHistory{err: errors.New("db closed")})
		m.Update(keyPress("h"))
		m.pull()
		tu.AssertContains(t, m.Lines(), "Error: db closed")
	})

	t.Run("reset key logs and clears", func(t *testing.T) {
		m := newTestModel(t)
		m.Update(keyPress("r"))
		m.Update(logUpdatedMsg())
		tu.AssertContains(t, m.Lines(), "--- Progress reset ---")
	})

	t.Run("quit key", func(t *testing.T) {
		m := newTestModel(t)
		_, cmd := m.Update(keyPress("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})

	t.Run("run once completes through a message", func(t *testing.T) {
		m := newTestModel(t)
		_, cmd := m.Update(keyPress("o"))
		if cmd == nil {
			t.Fatal("expected run command")
		}
		if got := StatusLine(m.session.State(), m.once); got != "running once" {
			t.Errorf("expected running once, got %q", got)
		}

		m.Update(cmd())
		if m.once {
			t.Error("expected once flag cleared after completion")
		}
		tu.AssertContains(t, m.Lines(), "--- Run Once:")
		tu.AssertContains(t, m.Lines(), "catalog down")
	})

	t.Run("second start is rejected", func(t *testing.T) {
		m := newTestModel(t)
		m.Update(keyPress("o"))

		_, cmd := m.Update(keyPress("a"))
		if cmd != nil {
			t.Error("expected auto run to be rejected while a one-shot run is active")
		}
		_, cmd = m.Update(keyPress("o"))
		if cmd != nil {
			t.Error("expected second one-shot run to be rejected")
		}

		m.Update(logUpdatedMsg())
		tu.AssertContains(t, m.Lines(), "a run is already in progress")
	})

	t.Run("auto run failure", func(t *testing.T) {
		m := newTestModel(t)
		_, cmd := m.Update(keyPress("a"))
		if cmd == nil {
			t.Fatal("expected run command")
		}

		m.Update(cmd())
		tu.AssertContains(t, m.Lines(), "catalog down")
		if got := StatusLine(m.session.State(), m.once); got != "idle" {
			t.Errorf("expected idle after failed start, got %q", got)
		}
	})

	t.Run("progress updates", func(t *testing.T) {
		m := newTestModel(t)
		update := tasks.ProgressUpdate{Phase: tasks.ProcessBatch, Step: 1, Total: 3, Message: "Batch 1/3 (10 items)"}
		_, cmd := m.Update(progressUpdateMsg(update))
		if cmd == nil {
			t.Error("expected to keep waiting for progress")
		}
		if m.last.Message != update.Message {
			t.Errorf("expected last update to be stored, got %+v", m.last)
		}
	})

	t.Run("view", func(t *testing.T) {
		m := newTestModel(t)
		m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
		view := m.View()

		for _, want := range []string{"galx", "batch 10", "image 'Logo'", "idle", "run once", "quit"} {
			if !strings.Contains(view, want) {
				t.Errorf("view missing %q:\n%s", want, view)
			}
		}
	})
}
