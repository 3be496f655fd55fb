package engine

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"shiftwatch/internal/agent/client"
	"shiftwatch/internal/agent/clock"
	"shiftwatch/internal/geo"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeAPI struct {
	mu         sync.Mutex
	activeFn   func(ctx context.Context) (*client.Session, error)
	settingsFn func(ctx context.Context) (*client.Settings, error)
	startFn    func(ctx context.Context, req client.StartSessionRequest) (*client.Session, error)
	endFn      func(ctx context.Context, req client.EndSessionRequest) (*client.Session, error)
	sendFn     func(ctx context.Context, sessionID string) error
	endCalls   int
	sendCalls  []string
}

func (f *fakeAPI) ActiveSession(ctx context.Context) (*client.Session, error) {
	return f.activeFn(ctx)
}
func (f *fakeAPI) GetSettings(ctx context.Context) (*client.Settings, error) {
	return f.settingsFn(ctx)
}
func (f *fakeAPI) StartSession(ctx context.Context, req client.StartSessionRequest) (*client.Session, error) {
	return f.startFn(ctx, req)
}
func (f *fakeAPI) EndSession(ctx context.Context, req client.EndSessionRequest) (*client.Session, error) {
	f.mu.Lock()
	f.endCalls++
	f.mu.Unlock()
	return f.endFn(ctx, req)
}
func (f *fakeAPI) SendEmail(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	f.sendCalls = append(f.sendCalls, sessionID)
	f.mu.Unlock()
	if f.sendFn != nil {
		return f.sendFn(ctx, sessionID)
	}
	return nil
}

type fakeLocator struct {
	authorized bool
	pos        geo.Point
	err        error
}

func (f *fakeLocator) Authorized(ctx context.Context) bool { return f.authorized }
func (f *fakeLocator) Current(ctx context.Context) (geo.Point, error) {
	return f.pos, f.err
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeNotifier) Notify(title, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, title)
}
func (f *fakeNotifier) Alert(message string, d time.Duration) {}

type fakePrompter struct {
	answer bool
	asked  int
}

func (f *fakePrompter) Confirm(question string) bool {
	f.asked++
	return f.answer
}

type memStore struct {
	id string
}

func (m *memStore) Load() (string, error) { return m.id, nil }
func (m *memStore) Save(id string) error  { m.id = id; return nil }
func (m *memStore) Clear() error          { m.id = ""; return nil }

var sessionStart = time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

func openSession() *client.Session {
	end := "17:00"
	return &client.Session{
		ID:           "sess-1",
		Date:         "2025-01-15",
		StartTime:    sessionStart.Format(time.RFC3339),
		ScheduledEnd: &end,
	}
}

func closedSession() *client.Session {
	s := openSession()
	endTime := time.Date(2025, 1, 15, 17, 47, 0, 0, time.UTC).Format(time.RFC3339)
	minutes := 47
	s.EndTime = &endTime
	s.OvertimeMinutes = &minutes
	s.Duration = "8val 47min"
	return s
}

func defaultSettings() *client.Settings {
	return &client.Settings{
		ReminderIntervalMinutes:  15,
		ReminderDurationSeconds:  10,
		EndOfDayReminderMinutes:  15,
		OvertimeThresholdMinutes: 5,
		GeofenceRadiusMeters:     100,
		WorkLocation: &client.WorkLocation{
			Latitude:  52.5200,
			Longitude: 13.4050,
			Radius:    100,
		},
	}
}

type fixture struct {
	ctrl     *Controller
	clk      *clock.Fake
	api      *fakeAPI
	locator  *fakeLocator
	notifier *fakeNotifier
	prompter *fakePrompter
	store    *memStore
}

func newFixture(api *fakeAPI) *fixture {
	f := &fixture{
		clk:      clock.NewFake(sessionStart),
		api:      api,
		locator:  &fakeLocator{authorized: true, pos: geo.Point{Latitude: 52.5200, Longitude: 13.4050}},
		notifier: &fakeNotifier{},
		prompter: &fakePrompter{},
		store:    &memStore{},
	}
	f.ctrl = NewController(Options{
		API:      api,
		Locator:  f.locator,
		Notifier: f.notifier,
		Prompter: f.prompter,
		Store:    f.store,
		Clock:    f.clk,
		Logger:   zap.NewNop(),
		Location: time.UTC,
	})
	return f
}

func TestController_StartWorkEntersActive(t *testing.T) {
	sess := openSession()
	api := &fakeAPI{
		startFn: func(ctx context.Context, req client.StartSessionRequest) (*client.Session, error) {
			assert.Equal(t, "2025-01-15", req.Date)
			assert.InDelta(t, 52.52, req.Latitude, 1e-9)
			return sess, nil
		},
		settingsFn: func(ctx context.Context) (*client.Settings, error) {
			return defaultSettings(), nil
		},
	}
	f := newFixture(api)

	assert.NoError(t, f.ctrl.StartWork(context.Background()))
	assert.Equal(t, StateActive, f.ctrl.State())
	assert.Equal(t, "sess-1", f.store.id)
	// Elapsed tick, photo reminder and geofence poll are all armed.
	assert.Equal(t, 3, f.clk.PendingCount())
}

func TestController_StartWorkAbortsWithoutLocationAccess(t *testing.T) {
	api := &fakeAPI{
		startFn: func(ctx context.Context, req client.StartSessionRequest) (*client.Session, error) {
			t.Fatal("must not reach the store without location access")
			return nil, nil
		},
	}
	f := newFixture(api)
	f.locator.authorized = false

	assert.NoError(t, f.ctrl.StartWork(context.Background()))
	assert.Equal(t, StateIdle, f.ctrl.State())
	assert.Equal(t, 0, f.clk.PendingCount())
	assert.Contains(t, f.notifier.messages, "Location unavailable")
}

func TestController_StartWorkStoreFailureStaysIdle(t *testing.T) {
	api := &fakeAPI{
		startFn: func(ctx context.Context, req client.StartSessionRequest) (*client.Session, error) {
			return nil, &client.APIError{Status: http.StatusConflict, Code: "INVALID_STATE", Message: "already active"}
		},
	}
	f := newFixture(api)

	assert.Error(t, f.ctrl.StartWork(context.Background()))
	assert.Equal(t, StateIdle, f.ctrl.State())
	assert.Equal(t, 0, f.clk.PendingCount())
	assert.Empty(t, f.store.id)
}

func TestController_StopWorkAlwaysPrompts(t *testing.T) {
	sess := openSession()
	api := &fakeAPI{
		startFn: func(ctx context.Context, req client.StartSessionRequest) (*client.Session, error) {
			return sess, nil
		},
		settingsFn: func(ctx context.Context) (*client.Settings, error) {
			return defaultSettings(), nil
		},
		activeFn: func(ctx context.Context) (*client.Session, error) { return sess, nil },
		endFn: func(ctx context.Context, req client.EndSessionRequest) (*client.Session, error) {
			return closedSession(), nil
		},
	}
	f := newFixture(api)
	f.prompter.answer = true

	assert.NoError(t, f.ctrl.StartWork(context.Background()))
	assert.NoError(t, f.ctrl.StopWork(context.Background()))

	assert.Equal(t, StateIdle, f.ctrl.State())
	assert.Equal(t, 1, f.prompter.asked, "manual stop always asks")
	assert.Equal(t, []string{"sess-1"}, api.sendCalls)
	assert.Equal(t, 0, f.clk.PendingCount(), "no timers survive the stop")
	assert.Empty(t, f.store.id)
}

func TestController_StopWorkDeclinedSkipsEmail(t *testing.T) {
	sess := openSession()
	api := &fakeAPI{
		startFn: func(ctx context.Context, req client.StartSessionRequest) (*client.Session, error) {
			return sess, nil
		},
		settingsFn: func(ctx context.Context) (*client.Settings, error) {
			return defaultSettings(), nil
		},
		activeFn: func(ctx context.Context) (*client.Session, error) { return sess, nil },
		endFn: func(ctx context.Context, req client.EndSessionRequest) (*client.Session, error) {
			return closedSession(), nil
		},
	}
	f := newFixture(api)
	f.prompter.answer = false

	assert.NoError(t, f.ctrl.StartWork(context.Background()))
	assert.NoError(t, f.ctrl.StopWork(context.Background()))

	assert.Equal(t, 1, f.prompter.asked)
	assert.Empty(t, api.sendCalls)
	assert.Equal(t, 0, f.clk.PendingCount())
}

func TestController_StopWorkClosedElsewhereIsSilentNoop(t *testing.T) {
	sess := openSession()
	api := &fakeAPI{
		startFn: func(ctx context.Context, req client.StartSessionRequest) (*client.Session, error) {
			return sess, nil
		},
		settingsFn: func(ctx context.Context) (*client.Settings, error) {
			return defaultSettings(), nil
		},
		activeFn: func(ctx context.Context) (*client.Session, error) { return nil, nil },
		endFn: func(ctx context.Context, req client.EndSessionRequest) (*client.Session, error) {
			t.Fatal("closed session must not be ended again")
			return nil, nil
		},
	}
	f := newFixture(api)

	assert.NoError(t, f.ctrl.StartWork(context.Background()))
	assert.NoError(t, f.ctrl.StopWork(context.Background()))

	assert.Equal(t, StateIdle, f.ctrl.State())
	assert.Equal(t, 0, f.prompter.asked)
	assert.Equal(t, 0, f.clk.PendingCount())
}

func TestController_GeofenceExitAutoSend(t *testing.T) {
	sess := openSession()
	cfg := defaultSettings()
	cfg.AutoSendEmailOnGeofence = true
	api := &fakeAPI{
		startFn: func(ctx context.Context, req client.StartSessionRequest) (*client.Session, error) {
			return sess, nil
		},
		settingsFn: func(ctx context.Context) (*client.Settings, error) { return cfg, nil },
		activeFn:   func(ctx context.Context) (*client.Session, error) { return sess, nil },
		endFn: func(ctx context.Context, req client.EndSessionRequest) (*client.Session, error) {
			return closedSession(), nil
		},
	}
	f := newFixture(api)

	assert.NoError(t, f.ctrl.StartWork(context.Background()))
	f.ctrl.GeofenceExitTriggered(context.Background(), geo.Point{Latitude: 52.53, Longitude: 13.405})

	assert.Equal(t, StateIdle, f.ctrl.State())
	assert.Equal(t, []string{"sess-1"}, api.sendCalls)
	assert.Equal(t, 0, f.prompter.asked, "auto-send never prompts")
	assert.Equal(t, 0, f.clk.PendingCount())
}

func TestController_GeofenceExitPromptWhenAutoSendOff(t *testing.T) {
	sess := openSession()
	api := &fakeAPI{
		startFn: func(ctx context.Context, req client.StartSessionRequest) (*client.Session, error) {
			return sess, nil
		},
		settingsFn: func(ctx context.Context) (*client.Settings, error) {
			return defaultSettings(), nil
		},
		activeFn: func(ctx context.Context) (*client.Session, error) { return sess, nil },
		endFn: func(ctx context.Context, req client.EndSessionRequest) (*client.Session, error) {
			return closedSession(), nil
		},
	}
	f := newFixture(api)
	f.prompter.answer = true

	assert.NoError(t, f.ctrl.StartWork(context.Background()))
	f.ctrl.GeofenceExitTriggered(context.Background(), geo.Point{Latitude: 52.53, Longitude: 13.405})

	assert.Equal(t, StateIdle, f.ctrl.State())
	assert.Equal(t, 1, f.prompter.asked, "asked only after leaving Active")
	assert.Equal(t, []string{"sess-1"}, api.sendCalls)
	assert.Equal(t, 0, f.clk.PendingCount())
}

func TestController_DoubleTriggerRaceEndsSessionOnce(t *testing.T) {
	sess := openSession()
	stillOpen := sess
	api := &fakeAPI{
		startFn: func(ctx context.Context, req client.StartSessionRequest) (*client.Session, error) {
			return sess, nil
		},
		settingsFn: func(ctx context.Context) (*client.Settings, error) {
			return defaultSettings(), nil
		},
		activeFn: func(ctx context.Context) (*client.Session, error) { return stillOpen, nil },
	}
	api.endFn = func(ctx context.Context, req client.EndSessionRequest) (*client.Session, error) {
		stillOpen = nil
		return closedSession(), nil
	}
	f := newFixture(api)

	assert.NoError(t, f.ctrl.StartWork(context.Background()))
	assert.NoError(t, f.ctrl.StopWork(context.Background()))

	// A stale geofence trigger arriving after the manual stop.
	f.ctrl.GeofenceExitTriggered(context.Background(), geo.Point{Latitude: 52.53, Longitude: 13.405})

	assert.Equal(t, 1, api.endCalls, "the session is ended exactly once")
	assert.Equal(t, 0, f.clk.PendingCount())
}

func TestController_ResumeRestoresActiveSession(t *testing.T) {
	sess := openSession()
	api := &fakeAPI{
		activeFn: func(ctx context.Context) (*client.Session, error) { return sess, nil },
		settingsFn: func(ctx context.Context) (*client.Settings, error) {
			return defaultSettings(), nil
		},
	}
	f := newFixture(api)

	assert.NoError(t, f.ctrl.Resume(context.Background()))
	assert.Equal(t, StateActive, f.ctrl.State())
	assert.Equal(t, 3, f.clk.PendingCount())
}

func TestController_ResumeWithoutActiveSessionClearsState(t *testing.T) {
	api := &fakeAPI{
		activeFn: func(ctx context.Context) (*client.Session, error) { return nil, nil },
	}
	f := newFixture(api)
	f.store.id = "stale"

	assert.NoError(t, f.ctrl.Resume(context.Background()))
	assert.Equal(t, StateIdle, f.ctrl.State())
	assert.Empty(t, f.store.id)
	assert.Equal(t, 0, f.clk.PendingCount())
}

func TestController_ElapsedTickFormatsRunningTime(t *testing.T) {
	sess := openSession()
	api := &fakeAPI{
		startFn: func(ctx context.Context, req client.StartSessionRequest) (*client.Session, error) {
			return sess, nil
		},
		settingsFn: func(ctx context.Context) (*client.Settings, error) {
			cfg := defaultSettings()
			cfg.WorkLocation = nil
			return cfg, nil
		},
	}
	f := newFixture(api)

	var last string
	f.ctrl.onElapsed = func(elapsed string) { last = elapsed }

	assert.NoError(t, f.ctrl.StartWork(context.Background()))
	f.clk.Advance(3 * time.Second)
	assert.Equal(t, "00:00:03", last)
}

func TestDecideEmailAction(t *testing.T) {
	assert.Equal(t, EmailActionAutoSend, DecideEmailAction(true))
	assert.Equal(t, EmailActionPrompt, DecideEmailAction(false))
}
