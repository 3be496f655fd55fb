package geofence

import (
	"context"
	"errors"
	"testing"
	"time"

	"shiftwatch/internal/agent/clock"
	"shiftwatch/internal/geo"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeLocator struct {
	pos geo.Point
	err error
}

func (f *fakeLocator) Authorized(ctx context.Context) bool { return true }
func (f *fakeLocator) Current(ctx context.Context) (geo.Point, error) {
	return f.pos, f.err
}

var work = geo.Point{Latitude: 52.5200, Longitude: 13.4050}

// farAway is roughly 1.1 km north of the work site.
var farAway = geo.Point{Latitude: 52.5300, Longitude: 13.4050}

func watchParams(end *time.Time) Params {
	return Params{
		Work:             work,
		RadiusMeters:     100,
		ScheduledEnd:     end,
		ThresholdMinutes: 5,
	}
}

func TestMonitor_HoldsBeforeOvertimeThreshold(t *testing.T) {
	// Scheduled end 17:00, threshold 5 min. A sample outside the fence
	// at 17:03 must not trigger.
	end := time.Date(2025, 1, 15, 17, 0, 0, 0, time.UTC)
	clk := clock.NewFake(time.Date(2025, 1, 15, 16, 58, 0, 0, time.UTC))
	locator := &fakeLocator{pos: farAway}
	m := NewMonitor(clk, locator, zap.NewNop())

	triggered := 0
	m.Start(watchParams(&end), func(pos geo.Point) { triggered++ })

	clk.Advance(5 * time.Minute) // sample at 17:03
	assert.Equal(t, 0, triggered)
	assert.Equal(t, 1, clk.PendingCount(), "monitor keeps polling")
}

func TestMonitor_TriggersPastOvertimeThreshold(t *testing.T) {
	// Same setup, next sample at 17:06 with 6 minutes of overtime.
	end := time.Date(2025, 1, 15, 17, 0, 0, 0, time.UTC)
	clk := clock.NewFake(time.Date(2025, 1, 15, 16, 56, 0, 0, time.UTC))
	locator := &fakeLocator{pos: farAway}
	m := NewMonitor(clk, locator, zap.NewNop())

	var got geo.Point
	triggered := 0
	m.Start(watchParams(&end), func(pos geo.Point) { triggered++; got = pos })

	clk.Advance(5 * time.Minute) // 17:01, held
	assert.Equal(t, 0, triggered)
	clk.Advance(5 * time.Minute) // 17:06, fires
	assert.Equal(t, 1, triggered)
	assert.Equal(t, farAway, got)
	assert.Equal(t, 0, clk.PendingCount(), "one-shot: polling stops on trigger")

	clk.Advance(30 * time.Minute)
	assert.Equal(t, 1, triggered)
}

func TestMonitor_NoScheduledEndTriggersImmediately(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	locator := &fakeLocator{pos: farAway}
	m := NewMonitor(clk, locator, zap.NewNop())

	triggered := 0
	m.Start(watchParams(nil), func(pos geo.Point) { triggered++ })

	clk.Advance(5 * time.Minute)
	assert.Equal(t, 1, triggered)
}

func TestMonitor_InsideFenceKeepsPolling(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 1, 15, 18, 0, 0, 0, time.UTC))
	locator := &fakeLocator{pos: work}
	m := NewMonitor(clk, locator, zap.NewNop())

	triggered := 0
	m.Start(watchParams(nil), func(pos geo.Point) { triggered++ })

	clk.Advance(time.Hour)
	assert.Equal(t, 0, triggered)
	assert.Equal(t, 1, clk.PendingCount())
}

func TestMonitor_SampleFailureSkipsTick(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 1, 15, 18, 0, 0, 0, time.UTC))
	locator := &fakeLocator{pos: farAway, err: errors.New("gps unavailable")}
	m := NewMonitor(clk, locator, zap.NewNop())

	triggered := 0
	m.Start(watchParams(nil), func(pos geo.Point) { triggered++ })

	clk.Advance(10 * time.Minute)
	assert.Equal(t, 0, triggered)
	assert.Equal(t, 1, clk.PendingCount(), "failures keep the poll alive")

	// Recovery on a later tick.
	locator.err = nil
	clk.Advance(5 * time.Minute)
	assert.Equal(t, 1, triggered)
}

func TestMonitor_StopCancelsPolling(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 1, 15, 18, 0, 0, 0, time.UTC))
	m := NewMonitor(clk, &fakeLocator{pos: farAway}, zap.NewNop())

	triggered := 0
	m.Start(watchParams(nil), func(pos geo.Point) { triggered++ })
	m.Stop()
	assert.Equal(t, 0, clk.PendingCount())

	clk.Advance(time.Hour)
	assert.Equal(t, 0, triggered)
}
