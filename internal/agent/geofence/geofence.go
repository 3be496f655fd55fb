// Package geofence polls the device position while a session is active
// and fires once when the user has left the work site after the
// overtime threshold. No OS-level geofencing; plain interval sampling.
package geofence

import (
	"context"
	"sync"
	"time"

	"shiftwatch/internal/agent/clock"
	"shiftwatch/internal/agent/device"
	"shiftwatch/internal/geo"

	"go.uber.org/zap"
)

const pollInterval = 5 * time.Minute

// Params describes the active watch. ScheduledEnd is the planned end
// resolved to an absolute time; when nil, leaving the site triggers
// regardless of the overtime threshold.
type Params struct {
	Work             geo.Point
	RadiusMeters     float64
	ScheduledEnd     *time.Time
	ThresholdMinutes int
}

type Monitor struct {
	clk     clock.Clock
	locator device.Locator
	log     *zap.Logger

	mu      sync.Mutex
	params  Params
	onExit  func(pos geo.Point)
	timer   clock.Timer
	running bool
}

func NewMonitor(clk clock.Clock, locator device.Locator, log *zap.Logger) *Monitor {
	return &Monitor{clk: clk, locator: locator, log: log}
}

// Start begins polling. onExit runs at most once; the monitor stops
// itself before invoking it.
func (m *Monitor) Start(p Params, onExit func(pos geo.Point)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
	m.params = p
	m.onExit = onExit
	m.running = true
	m.timer = m.clk.AfterFunc(pollInterval, m.tick)
}

func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *Monitor) stopLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.running = false
	m.onExit = nil
}

func (m *Monitor) tick() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	p := m.params
	m.mu.Unlock()

	pos, err := m.locator.Current(context.Background())
	if err != nil {
		m.log.Warn("position sample failed, skipping tick", zap.Error(err))
		m.rearm()
		return
	}

	dist := geo.Distance(pos, p.Work)
	if dist <= p.RadiusMeters || !m.pastThreshold(p) {
		m.rearm()
		return
	}

	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	onExit := m.onExit
	m.stopLocked()
	m.mu.Unlock()

	m.log.Info("geofence exit detected",
		zap.Float64("distance_meters", dist),
		zap.Float64("radius_meters", p.RadiusMeters))
	if onExit != nil {
		onExit(pos)
	}
}

// pastThreshold gates the exit on worked overtime. Without a scheduled
// end there is nothing to wait for and the gate is open.
func (m *Monitor) pastThreshold(p Params) bool {
	if p.ScheduledEnd == nil {
		return true
	}
	overtime := m.clk.Now().Sub(*p.ScheduledEnd)
	return overtime >= time.Duration(p.ThresholdMinutes)*time.Minute
}

func (m *Monitor) rearm() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.timer = m.clk.AfterFunc(pollInterval, m.tick)
}
