package tasks

import (
	"fmt"
	"sync"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
)

// SessionState is a point-in-time copy of a [Session].
type SessionState struct {
	ID      string
	Batches int
	Index   int
	Running bool
	Active  bool // an AutoRun loop has not returned yet
	Target  models.MediaID
}

// Session holds auto-run progress: the partitioned batches, the index of the next batch,
// the running flag and the resolved target. It lives in memory only.
//
// Stop and Reset may be called from any goroutine while [Scheduler.AutoRun] is looping.
type Session struct {
	mu         sync.Mutex
	id         string
	batches    []models.Batch
	index      int
	running    bool
	looping    bool
	target     models.MediaID
	stop       chan struct{}
	generation int
}

// NewSession creates an idle session.
func NewSession() *Session {
	return &Session{id: shared.GenerateID()}
}

// State returns a snapshot of the session.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionState{
		ID:      s.id,
		Batches: len(s.batches),
		Index:   s.index,
		Running: s.running,
		Active:  s.looping,
		Target:  s.target,
	}
}

// Stop clears the running flag and wakes a sleeping auto-run. It reports whether a run was active.
func (s *Session) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.halt()
}

// Reset clears batches, index and running flag whether or not a run is active.
// A tick already in flight will not advance the cleared index.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.halt()
	s.batches = nil
	s.index = 0
	s.target = 0
	s.generation++
}

// halt must be called with mu held.
func (s *Session) halt() bool {
	wasRunning := s.running
	s.running = false
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	return wasRunning
}

// begin marks the session running and returns the generation and stop channel owned by this run.
func (s *Session) begin() (int, <-chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return 0, nil, fmt.Errorf("%w: batch %d of %d in progress", shared.ErrAutoRunActive, s.index+1, len(s.batches))
	}
	if s.looping {
		return 0, nil, fmt.Errorf("%w: finishing the current batch", shared.ErrAutoRunActive)
	}
	s.running = true
	s.looping = true
	s.stop = make(chan struct{})
	return s.generation, s.stop, nil
}

// end releases the run started by begin, clearing the running flag if the session still belongs to gen.
func (s *Session) end(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == gen {
		s.halt()
	}
	s.looping = false
}

// cancel clears the running flag for gen without releasing the run.
func (s *Session) cancel(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == gen {
		s.halt()
	}
}

func (s *Session) hasBatches() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches) > 0
}

// load stores freshly partitioned batches and rewinds the index.
func (s *Session) load(gen int, batches []models.Batch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return false
	}
	s.batches = batches
	s.index = 0
	return true
}

func (s *Session) setTarget(gen int, id models.MediaID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == gen {
		s.target = id
	}
}

type tickState int

const (
	tickRun tickState = iota
	tickStopped
	tickFinished
	tickReset
)

// next decides what the tick for gen should do. Exhausted batches clear the running flag
// but keep batches and index in place.
func (s *Session) next(gen int) (models.Batch, int, int, tickState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.generation != gen:
		return nil, 0, 0, tickReset
	case !s.running:
		return nil, s.index, len(s.batches), tickStopped
	case s.index >= len(s.batches):
		s.halt()
		return nil, s.index, len(s.batches), tickFinished
	default:
		return s.batches[s.index], s.index, len(s.batches), tickRun
	}
}

// advance moves past the batch just processed and reports whether another tick should be scheduled.
func (s *Session) advance(gen int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		return false
	}
	s.index++
	return s.running && s.index < len(s.batches)
}
