package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// scanFireMsg delivers a scheduled callback back to the event loop.
type scanFireMsg struct {
	id uint64
}

// Scheduler implements portal.Scheduler on top of tea.Tick. Callbacks never
// run on timer goroutines: the tick message comes back through App.Update,
// which calls fire.
type Scheduler struct {
	mu     sync.Mutex
	nextID uint64
	live   map[uint64]func()
	queued []tea.Cmd
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{live: make(map[uint64]func())}
}

// AfterFunc arms fn. The tick is queued until the next flush hands it to
// bubbletea.
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.live[id] = fn
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return scanFireMsg{id: id}
	}))

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		_, ok := s.live[id]
		delete(s.live, id)
		return ok
	}
}

// flush returns the ticks armed since the last flush, or nil.
func (s *Scheduler) flush() tea.Cmd {
	s.mu.Lock()
	defer s.mu.Unlock()

	cmds := s.queued
	s.queued = nil
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

// fire runs the callback for id if it was not stopped, then returns any
// ticks it armed.
func (s *Scheduler) fire(id uint64) tea.Cmd {
	s.mu.Lock()
	fn, ok := s.live[id]
	delete(s.live, id)
	s.mu.Unlock()

	if ok {
		fn()
	}
	return s.flush()
}
