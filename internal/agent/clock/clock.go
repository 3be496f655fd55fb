// Package clock abstracts timer creation so the engine's single-shot
// timers can be driven deterministically in tests.
package clock

import "time"

type Timer interface {
	// Stop cancels the timer. It reports whether the timer was still
	// pending; a false return means the callback already ran or the
	// timer was stopped before.
	Stop() bool
}

type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

type realClock struct{}

func New() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return realTimer{t: time.AfterFunc(d, fn)}
}

type realTimer struct {
	t *time.Timer
}

func (r realTimer) Stop() bool { return r.t.Stop() }
