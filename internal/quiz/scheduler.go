package quiz

import "time"

// Scheduler runs fn once after d. The returned cancel stops a task that has
// not fired yet; cancelling after the fire is a no-op. Tests substitute a
// manual implementation to drive the auto-advance deterministically.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
}

// TimerScheduler is the production Scheduler backed by runtime timers.
type TimerScheduler struct{}

func NewTimerScheduler() TimerScheduler {
	return TimerScheduler{}
}

func (TimerScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
