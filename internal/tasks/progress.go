package tasks

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Level classifies a progress line.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Entry is one line of the progress log. Seq starts at 1 and increases by one per entry.
type Entry struct {
	Seq   int
	Time  time.Time
	Level Level
	Text  string
}

// ProgressLog is an append-only, concurrency safe sink for human readable progress lines.
//
// Readers wait on [ProgressLog.Notify] and pull unseen entries with [ProgressLog.Since],
// so a slow reader never blocks a writer and never misses a line.
type ProgressLog struct {
	mu      sync.Mutex
	entries []Entry
	counter int
	notify  chan struct{}
	logger  *log.Logger
	now     func() time.Time
}

// NewProgressLog creates an empty log. Every entry is mirrored to logger when it is not nil.
func NewProgressLog(logger *log.Logger) *ProgressLog {
	return &ProgressLog{
		counter: 1,
		notify:  make(chan struct{}, 1),
		logger:  logger,
		now:     time.Now,
	}
}

// Printf appends an informational line.
func (p *ProgressLog) Printf(format string, args ...any) Entry {
	return p.append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf appends a warning line.
func (p *ProgressLog) Warnf(format string, args ...any) Entry {
	return p.append(LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf appends an error line.
func (p *ProgressLog) Errorf(format string, args ...any) Entry {
	return p.append(LevelError, fmt.Sprintf(format, args...))
}

// Numbered appends an informational line prefixed with the next line number ("3. ...").
func (p *ProgressLog) Numbered(format string, args ...any) Entry {
	return p.numbered(LevelInfo, format, args...)
}

// NumberedWarn is [ProgressLog.Numbered] at warning level.
func (p *ProgressLog) NumberedWarn(format string, args ...any) Entry {
	return p.numbered(LevelWarn, format, args...)
}

// numbered takes the line number and stores the entry under one lock so numbers follow entry order.
func (p *ProgressLog) numbered(level Level, format string, args ...any) Entry {
	body := fmt.Sprintf(format, args...)

	p.mu.Lock()
	entry := p.store(level, fmt.Sprintf("%d. %s", p.counter, body))
	p.counter++
	p.mu.Unlock()

	p.publish(entry)
	return entry
}

func (p *ProgressLog) append(level Level, text string) Entry {
	p.mu.Lock()
	entry := p.store(level, text)
	p.mu.Unlock()

	p.publish(entry)
	return entry
}

// store appends an entry. The caller holds p.mu.
func (p *ProgressLog) store(level Level, text string) Entry {
	entry := Entry{Seq: len(p.entries) + 1, Time: p.now(), Level: level, Text: text}
	p.entries = append(p.entries, entry)
	return entry
}

// publish mirrors entry to the logger and wakes readers.
func (p *ProgressLog) publish(entry Entry) {
	level, text := entry.Level, entry.Text

	if p.logger != nil {
		switch level {
		case LevelWarn:
			p.logger.Warn(text)
		case LevelError:
			p.logger.Error(text)
		default:
			p.logger.Debug(text)
		}
	}

	select {
	case p.notify <- struct{}{}:
	default:
	}
}

// Notify returns a channel that receives after one or more entries were appended.
// Wake-ups coalesce; call [ProgressLog.Since] to read everything new.
func (p *ProgressLog) Notify() <-chan struct{} {
	return p.notify
}

// Since returns a copy of the entries with Seq greater than seq.
func (p *ProgressLog) Since(seq int) []Entry {
	p.mu.Lock()
	defer p.mu.Unlock()

	if seq < 0 {
		seq = 0
	}
	if seq >= len(p.entries) {
		return nil
	}
	out := make([]Entry, len(p.entries)-seq)
	copy(out, p.entries[seq:])
	return out
}

// Lines returns the text of every entry in order.
func (p *ProgressLog) Lines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	lines := make([]string, len(p.entries))
	for i, e := range p.entries {
		lines[i] = e.Text
	}
	return lines
}

// Len returns the number of entries.
func (p *ProgressLog) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}
