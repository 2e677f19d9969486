package portal

import "time"

// Scheduler runs fn once after d. The returned stop func prevents fn from
// running and reports whether it was still pending.
//
// The terminal UI implements it with bubbletea ticks so scheduled work runs
// on the event loop; tests implement it with a manual clock.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

// TimerScheduler schedules with time.AfterFunc. Callbacks run on timer goroutines.
type TimerScheduler struct{}

// AfterFunc implements Scheduler.
func (TimerScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}
