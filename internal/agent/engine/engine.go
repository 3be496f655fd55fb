// Package engine drives the session lifecycle on the device: Idle until
// a shift is started, Active while one runs, back to Idle on a manual
// stop or a geofence exit. The collaborator API's store is the single
// source of truth; the controller only caches the active session.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"shiftwatch/internal/agent/client"
	"shiftwatch/internal/agent/clock"
	"shiftwatch/internal/agent/device"
	"shiftwatch/internal/agent/geofence"
	"shiftwatch/internal/agent/reminder"
	"shiftwatch/internal/geo"
	"shiftwatch/internal/overtime"

	"go.uber.org/zap"
)

type State int

const (
	StateIdle State = iota
	StateActive
)

// API is the slice of the collaborator client the controller needs.
type API interface {
	ActiveSession(ctx context.Context) (*client.Session, error)
	GetSettings(ctx context.Context) (*client.Settings, error)
	StartSession(ctx context.Context, req client.StartSessionRequest) (*client.Session, error)
	EndSession(ctx context.Context, req client.EndSessionRequest) (*client.Session, error)
	SendEmail(ctx context.Context, sessionID string) error
}

// StateStore persists the active-session pointer for crash recovery.
type StateStore interface {
	Load() (string, error)
	Save(sessionID string) error
	Clear() error
}

// EmailAction is the outcome of the geofence email decision.
type EmailAction int

const (
	// EmailActionAutoSend sends the report and notifies the user.
	EmailActionAutoSend EmailAction = iota
	// EmailActionPrompt asks the user before sending.
	EmailActionPrompt
)

// DecideEmailAction separates the geofence email decision from its side
// effects.
func DecideEmailAction(autoSend bool) EmailAction {
	if autoSend {
		return EmailActionAutoSend
	}
	return EmailActionPrompt
}

type Controller struct {
	api      API
	locator  device.Locator
	notifier device.Notifier
	prompter device.Prompter
	store    StateStore
	clk      clock.Clock
	log      *zap.Logger
	loc      *time.Location

	reminders *reminder.Scheduler
	monitor   *geofence.Monitor

	// onElapsed receives the formatted HH:MM:SS span every second while
	// Active. Optional.
	onElapsed func(elapsed string)

	mu           sync.Mutex
	state        State
	session      *client.Session
	startedAt    time.Time
	elapsedTimer clock.Timer
}

type Options struct {
	API       API
	Locator   device.Locator
	Notifier  device.Notifier
	Prompter  device.Prompter
	Store     StateStore
	Clock     clock.Clock
	Logger    *zap.Logger
	Location  *time.Location
	OnElapsed func(elapsed string)
}

func NewController(opts Options) *Controller {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Controller{
		api:       opts.API,
		locator:   opts.Locator,
		notifier:  opts.Notifier,
		prompter:  opts.Prompter,
		store:     opts.Store,
		clk:       opts.Clock,
		log:       opts.Logger,
		loc:       opts.Location,
		reminders: reminder.NewScheduler(opts.Clock, opts.Notifier),
		monitor:   geofence.NewMonitor(opts.Clock, opts.Locator, opts.Logger),
		onElapsed: opts.OnElapsed,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Resume re-enters Active when the API still has an open session, e.g.
// after a restart. The persisted state file is only a hint; the API
// answer wins.
func (c *Controller) Resume(ctx context.Context) error {
	sess, err := c.api.ActiveSession(ctx)
	if err != nil {
		return err
	}
	if sess == nil {
		if err := c.store.Clear(); err != nil {
			c.log.Warn("clearing stale state file", zap.Error(err))
		}
		return nil
	}

	cfg, err := c.api.GetSettings(ctx)
	if err != nil {
		return err
	}
	c.enterActive(sess, cfg)
	c.log.Info("resumed active session", zap.String("session_id", sess.ID))
	return nil
}

// StartWork opens a new session at the current position and arms the
// timers. No-op when already Active.
func (c *Controller) StartWork(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateActive {
		c.mu.Unlock()
		c.notifier.Notify("Already working", "A session is already running")
		return nil
	}
	c.mu.Unlock()

	if !c.locator.Authorized(ctx) {
		c.notifier.Notify("Location unavailable", "Grant location access to start a session")
		return nil
	}
	pos, err := c.locator.Current(ctx)
	if err != nil {
		c.notifier.Notify("Location unavailable", "Could not determine your position")
		return err
	}

	now := c.clk.Now()
	sess, err := c.api.StartSession(ctx, client.StartSessionRequest{
		Date:           now.In(c.loc).Format("2006-01-02"),
		Latitude:       pos.Latitude,
		Longitude:      pos.Longitude,
		StartTimestamp: now,
	})
	if err != nil {
		c.notifier.Notify("Could not start session", err.Error())
		return err
	}

	cfg, err := c.api.GetSettings(ctx)
	if err != nil {
		// Session exists server-side; run with defaults rather than
		// aborting after the fact.
		c.log.Warn("settings unavailable, using defaults", zap.Error(err))
		cfg = &client.Settings{
			ReminderIntervalMinutes:  15,
			ReminderDurationSeconds:  10,
			EndOfDayReminderMinutes:  15,
			OvertimeThresholdMinutes: 5,
			GeofenceRadiusMeters:     100,
		}
	}

	if err := c.store.Save(sess.ID); err != nil {
		c.log.Warn("persisting session pointer", zap.Error(err))
	}
	c.enterActive(sess, cfg)
	c.notifier.Notify("Session started", "Work session is now being tracked")
	return nil
}

// StopWork ends the active session and always asks whether to send the
// overtime report. The guard re-fetch makes a concurrent geofence stop
// a silent no-op.
func (c *Controller) StopWork(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateActive || c.session == nil {
		c.mu.Unlock()
		return nil
	}
	localID := c.session.ID
	c.mu.Unlock()

	current, err := c.api.ActiveSession(ctx)
	if err != nil {
		c.notifier.Notify("Could not stop session", err.Error())
		return err
	}
	if current == nil || current.ID != localID {
		c.log.Info("session already closed elsewhere, cleaning up",
			zap.String("session_id", localID))
		c.exitActive()
		return nil
	}

	pos, err := c.locator.Current(ctx)
	if err != nil {
		c.notifier.Notify("Location unavailable", "Could not determine your position")
		return err
	}

	ended, err := c.api.EndSession(ctx, client.EndSessionRequest{
		SessionID: localID,
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
	})
	if err != nil {
		if isConflict(err) {
			// Lost the race against a geofence trigger.
			c.exitActive()
			return nil
		}
		c.notifier.Notify("Could not stop session", err.Error())
		return err
	}
	c.exitActive()

	c.notifySessionClosed(ended)
	if c.prompter.Confirm("Send the overtime report email now?") {
		c.sendReport(ctx, ended.ID)
	}
	return nil
}

// GeofenceExitTriggered is the monitor's exit handler. It re-checks the
// store before acting so a manual stop that won the race turns this
// into a no-op.
func (c *Controller) GeofenceExitTriggered(ctx context.Context, pos geo.Point) {
	c.mu.Lock()
	if c.state != StateActive || c.session == nil {
		c.mu.Unlock()
		return
	}
	localID := c.session.ID
	c.mu.Unlock()

	current, err := c.api.ActiveSession(ctx)
	if err != nil {
		c.log.Warn("geofence stop aborted, store unreachable", zap.Error(err))
		return
	}
	if current == nil || current.ID != localID {
		c.exitActive()
		return
	}

	ended, err := c.api.EndSession(ctx, client.EndSessionRequest{
		SessionID: localID,
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
	})
	if err != nil {
		if isConflict(err) {
			c.exitActive()
			return
		}
		c.log.Error("geofence stop failed", zap.Error(err))
		return
	}
	c.exitActive()

	autoSend := false
	if cfg, err := c.api.GetSettings(ctx); err == nil {
		autoSend = cfg.AutoSendEmailOnGeofence
	}

	switch DecideEmailAction(autoSend) {
	case EmailActionAutoSend:
		c.sendReport(ctx, ended.ID)
		c.notifier.Notify("Session ended", "You left the work site; the overtime report was sent")
	case EmailActionPrompt:
		c.notifySessionClosed(ended)
		if c.prompter.Confirm("You left the work site and the session was ended. Send the overtime report email?") {
			c.sendReport(ctx, ended.ID)
		}
	}
}

func (c *Controller) sendReport(ctx context.Context, sessionID string) {
	if err := c.api.SendEmail(ctx, sessionID); err != nil {
		c.notifier.Notify("Email failed", err.Error())
		return
	}
	c.notifier.Notify("Email queued", "The overtime report is on its way")
}

func (c *Controller) notifySessionClosed(sess *client.Session) {
	msg := "Worked " + sess.Duration
	if sess.OvertimeMinutes != nil && *sess.OvertimeMinutes > 0 {
		msg += ", overtime recorded"
	}
	c.notifier.Notify("Session ended", msg)
}

// enterActive installs the session and arms all three timers: elapsed
// tick, photo reminder, geofence poll.
func (c *Controller) enterActive(sess *client.Session, cfg *client.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StateActive
	c.session = sess
	if started, err := sess.StartedAt(); err == nil {
		c.startedAt = started
	} else {
		c.startedAt = c.clk.Now()
	}

	c.armElapsedLocked()

	scheduledEnd := c.resolveScheduledEnd(sess)
	c.reminders.Start(reminder.Config{
		BaseInterval:   time.Duration(cfg.ReminderIntervalMinutes) * time.Minute,
		EndOfDayWindow: time.Duration(cfg.EndOfDayReminderMinutes) * time.Minute,
		AlertDuration:  time.Duration(cfg.ReminderDurationSeconds) * time.Second,
	}, scheduledEnd)

	if cfg.WorkLocation != nil {
		radius := float64(cfg.WorkLocation.Radius)
		if radius <= 0 {
			radius = float64(cfg.GeofenceRadiusMeters)
		}
		c.monitor.Start(geofence.Params{
			Work: geo.Point{
				Latitude:  cfg.WorkLocation.Latitude,
				Longitude: cfg.WorkLocation.Longitude,
			},
			RadiusMeters:     radius,
			ScheduledEnd:     scheduledEnd,
			ThresholdMinutes: cfg.OvertimeThresholdMinutes,
		}, func(pos geo.Point) {
			c.GeofenceExitTriggered(context.Background(), pos)
		})
	}
}

// exitActive tears down every timer together and forgets the session.
func (c *Controller) exitActive() {
	c.mu.Lock()
	if c.elapsedTimer != nil {
		c.elapsedTimer.Stop()
		c.elapsedTimer = nil
	}
	c.state = StateIdle
	c.session = nil
	c.mu.Unlock()

	c.reminders.Stop()
	c.monitor.Stop()
	if err := c.store.Clear(); err != nil {
		c.log.Warn("clearing session pointer", zap.Error(err))
	}
}

func (c *Controller) armElapsedLocked() {
	c.elapsedTimer = c.clk.AfterFunc(time.Second, c.elapsedTick)
}

func (c *Controller) elapsedTick() {
	c.mu.Lock()
	if c.state != StateActive {
		c.mu.Unlock()
		return
	}
	elapsed := overtime.FormatElapsed(c.startedAt, c.clk.Now())
	c.armElapsedLocked()
	c.mu.Unlock()

	if c.onElapsed != nil {
		c.onElapsed(elapsed)
	}
}

func (c *Controller) resolveScheduledEnd(sess *client.Session) *time.Time {
	if sess.ScheduledEnd == nil {
		return nil
	}
	day, err := time.ParseInLocation("2006-01-02", sess.Date, c.loc)
	if err != nil {
		return nil
	}
	end, err := overtime.ResolveClock(*sess.ScheduledEnd, day, c.loc)
	if err != nil {
		return nil
	}
	return &end
}

func isConflict(err error) bool {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == "CONFLICT" || apiErr.Code == "INVALID_STATE"
}
