package portal

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/medicare-portal/medicare/internal/logging"
	"github.com/medicare-portal/medicare/pkg/domain"
)

// ScanConfig sets the pace of a simulated scan.
type ScanConfig struct {
	TickInterval time.Duration
	Increment    int
	SettleDelay  time.Duration
}

// DefaultScanConfig matches a two second scan followed by a one second settle.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		TickInterval: 100 * time.Millisecond,
		Increment:    5,
		SettleDelay:  time.Second,
	}
}

// Validate rejects configs that would never finish a scan.
func (c ScanConfig) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("scan tick interval must be positive, got %s", c.TickInterval)
	}
	if c.Increment < 1 || c.Increment > domain.MaxScanProgress {
		return fmt.Errorf("scan increment must be in [1,%d], got %d", domain.MaxScanProgress, c.Increment)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("scan settle delay must not be negative, got %s", c.SettleDelay)
	}
	return nil
}

type scanEvent int

const (
	evStart scanEvent = iota
	evTick
	evComplete // tick that reaches full progress
	evSettle
	evCancel
)

// scanTransitions is the full machine. Pairs missing from the table are
// rejected or ignored.
var scanTransitions = map[domain.ScanPhase]map[scanEvent]domain.ScanPhase{
	domain.ScanIdle: {
		evStart: domain.ScanScanning,
	},
	domain.ScanScanning: {
		evTick:     domain.ScanScanning,
		evComplete: domain.ScanVerified,
		evCancel:   domain.ScanIdle,
	},
	domain.ScanVerified: {
		evSettle: domain.ScanIdle,
		evCancel: domain.ScanIdle,
	},
}

// ScanSimulator drives one simulated biometric scan at a time.
type ScanSimulator struct {
	mu         sync.Mutex
	cfg        ScanConfig
	sched      Scheduler
	log        logrus.FieldLogger
	state      domain.ScanState
	gen        uint64 // bumped per scan and on cancel; stale timers compare against it
	stop       func() bool
	onComplete func()
}

// NewScanSimulator returns an idle simulator. cfg must be valid.
func NewScanSimulator(cfg ScanConfig, sched Scheduler, log logrus.FieldLogger) *ScanSimulator {
	return &ScanSimulator{
		cfg:   cfg,
		sched: sched,
		log:   logging.OrDiscard(log),
	}
}

// State returns a snapshot of the scan.
func (s *ScanSimulator) State() domain.ScanState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start begins a scan and returns immediately. onComplete runs once, after
// the scan has settled back to idle, unless the scan is cancelled first.
func (s *ScanSimulator) Start(onComplete func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.apply(evStart) {
		return fmt.Errorf("portal.Start: %w: scan is %s", ErrScanInProgress, s.state.Phase)
	}
	s.gen++
	s.state.Progress = 0
	s.onComplete = onComplete
	s.schedule(s.cfg.TickInterval, s.tick)
	s.log.WithField("scan", s.gen).Debug("scan started")
	return nil
}

// Cancel aborts an in-flight scan and drops its completion. It reports
// whether there was anything to cancel.
func (s *ScanSimulator) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.apply(evCancel) {
		return false
	}
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	s.gen++
	s.state.Progress = 0
	s.onComplete = nil
	s.log.Debug("scan cancelled")
	return true
}

func (s *ScanSimulator) tick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.state.Phase != domain.ScanScanning {
		return
	}
	next := min(s.state.Progress+s.cfg.Increment, domain.MaxScanProgress)
	if next < domain.MaxScanProgress {
		s.apply(evTick)
		s.state.Progress = next
		s.schedule(s.cfg.TickInterval, s.tick)
		return
	}
	s.apply(evComplete)
	s.state.Progress = next
	s.schedule(s.cfg.SettleDelay, s.settle)
	s.log.WithField("scan", gen).Debug("scan verified")
}

func (s *ScanSimulator) settle(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || !s.apply(evSettle) {
		s.mu.Unlock()
		return
	}
	done := s.onComplete
	s.onComplete = nil
	s.stop = nil
	s.state.Progress = 0
	s.mu.Unlock()

	if done != nil {
		done()
	}
}

// apply moves to the phase the table gives for ev. Callers hold mu.
func (s *ScanSimulator) apply(ev scanEvent) bool {
	next, ok := scanTransitions[s.state.Phase][ev]
	if !ok {
		return false
	}
	s.state.Phase = next
	return true
}

// schedule arms step for the current generation. Callers hold mu.
func (s *ScanSimulator) schedule(d time.Duration, step func(uint64)) {
	gen := s.gen
	s.stop = s.sched.AfterFunc(d, func() { step(gen) })
}
