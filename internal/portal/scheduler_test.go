package portal

import (
	"sync"
	"time"
)

// manualScheduler is a fake clock: timers fire only inside Advance.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	fn      func()
	done    bool
	stopped bool
}

func (m *manualScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &manualTimer{at: m.now + d, fn: fn}
	m.timers = append(m.timers, t)
	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		if t.done {
			return false
		}
		t.done = true
		t.stopped = true
		return true
	}
}

// Advance moves the clock forward by d, firing due timers in order.
func (m *manualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	for {
		var next *manualTimer
		for _, t := range m.timers {
			if t.done || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			break
		}
		next.done = true
		m.now = next.at
		m.mu.Unlock()
		next.fn()
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
}

// pending counts timers that have neither fired nor been stopped.
func (m *manualScheduler) pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.done {
			n++
		}
	}
	return n
}
