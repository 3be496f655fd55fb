package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFake_AdvanceFiresInDeadlineOrder(t *testing.T) {
	clk := NewFake(time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))

	var fired []string
	clk.AfterFunc(2*time.Minute, func() { fired = append(fired, "second") })
	clk.AfterFunc(1*time.Minute, func() { fired = append(fired, "first") })
	assert.Equal(t, 2, clk.PendingCount())

	clk.Advance(90 * time.Second)
	assert.Equal(t, []string{"first"}, fired)
	assert.Equal(t, 1, clk.PendingCount())

	clk.Advance(time.Minute)
	assert.Equal(t, []string{"first", "second"}, fired)
	assert.Equal(t, 0, clk.PendingCount())
}

func TestFake_CallbackMayRearm(t *testing.T) {
	clk := NewFake(time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))

	count := 0
	var rearm func()
	rearm = func() {
		count++
		if count < 3 {
			clk.AfterFunc(time.Minute, rearm)
		}
	}
	clk.AfterFunc(time.Minute, rearm)

	clk.Advance(3 * time.Minute)
	assert.Equal(t, 3, count)
	assert.Equal(t, 0, clk.PendingCount())
}

func TestFake_StopRemovesPendingTimer(t *testing.T) {
	clk := NewFake(time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))

	fired := false
	timer := clk.AfterFunc(time.Minute, func() { fired = true })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	clk.Advance(5 * time.Minute)
	assert.False(t, fired)
	assert.Equal(t, 0, clk.PendingCount())
}
