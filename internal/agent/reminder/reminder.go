// Package reminder re-arms a single-shot timer that nudges the user to
// photograph their time sheet while a session is active. At most one
// timer is pending at any moment; the interval shortens near the
// scheduled end of the day.
package reminder

import (
	"sync"
	"time"

	"shiftwatch/internal/agent/clock"
	"shiftwatch/internal/agent/device"
)

const escalatedInterval = 5 * time.Minute

type Config struct {
	BaseInterval   time.Duration
	EndOfDayWindow time.Duration
	AlertDuration  time.Duration
}

type Scheduler struct {
	clk      clock.Clock
	notifier device.Notifier

	mu           sync.Mutex
	cfg          Config
	scheduledEnd *time.Time
	timer        clock.Timer
	running      bool
}

func NewScheduler(clk clock.Clock, notifier device.Notifier) *Scheduler {
	return &Scheduler{clk: clk, notifier: notifier}
}

// Start arms the first reminder. scheduledEnd is the day's planned end
// resolved to an absolute time, nil when no schedule covers the day.
func (s *Scheduler) Start(cfg Config, scheduledEnd *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.cfg = cfg
	s.scheduledEnd = scheduledEnd
	s.running = true
	s.armLocked()
}

// Stop cancels the pending reminder. Safe to call repeatedly.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.running = false
}

func (s *Scheduler) armLocked() {
	s.timer = s.clk.AfterFunc(s.nextIntervalLocked(), s.fire)
}

// nextIntervalLocked shortens the cadence once the scheduled end is
// less than the end-of-day window away. Past the end the base interval
// applies again.
func (s *Scheduler) nextIntervalLocked() time.Duration {
	if s.scheduledEnd != nil {
		until := s.scheduledEnd.Sub(s.clk.Now())
		if until > 0 && until <= s.cfg.EndOfDayWindow {
			return escalatedInterval
		}
	}
	return s.cfg.BaseInterval
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	cfg := s.cfg
	s.armLocked()
	s.mu.Unlock()

	s.notifier.Notify("Time sheet reminder", "Take a photo of your time sheet")
	s.notifier.Alert("Time sheet photo due", cfg.AlertDuration)
}
