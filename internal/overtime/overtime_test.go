package overtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clock(s string) *string { return &s }

func TestComputeMinutes(t *testing.T) {
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("past scheduled end", func(t *testing.T) {
		end := time.Date(2025, 1, 15, 17, 47, 0, 0, time.UTC)
		got, err := ComputeMinutes(clock("17:00"), end, day, time.UTC)
		assert.NoError(t, err)
		if assert.NotNil(t, got) {
			assert.Equal(t, 47, *got)
		}
	})

	t.Run("no scheduled end", func(t *testing.T) {
		end := time.Date(2025, 1, 15, 23, 0, 0, 0, time.UTC)
		got, err := ComputeMinutes(nil, end, day, time.UTC)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("before scheduled end clamps to zero", func(t *testing.T) {
		end := time.Date(2025, 1, 15, 16, 50, 0, 0, time.UTC)
		got, err := ComputeMinutes(clock("17:00"), end, day, time.UTC)
		assert.NoError(t, err)
		if assert.NotNil(t, got) {
			assert.Equal(t, 0, *got)
		}
	})

	t.Run("rounds to nearest minute", func(t *testing.T) {
		end := time.Date(2025, 1, 15, 17, 2, 40, 0, time.UTC)
		got, err := ComputeMinutes(clock("17:00"), end, day, time.UTC)
		assert.NoError(t, err)
		if assert.NotNil(t, got) {
			assert.Equal(t, 3, *got)
		}
	})

	t.Run("malformed scheduled end", func(t *testing.T) {
		end := time.Date(2025, 1, 15, 17, 0, 0, 0, time.UTC)
		_, err := ComputeMinutes(clock("25:99"), end, day, time.UTC)
		assert.Error(t, err)
	})
}

func TestFormatDuration(t *testing.T) {
	start := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

	end := time.Date(2025, 1, 15, 17, 30, 0, 0, time.UTC)
	assert.Equal(t, "8val 30min", FormatDuration(start, &end))

	short := time.Date(2025, 1, 15, 9, 45, 0, 0, time.UTC)
	assert.Equal(t, "0val 45min", FormatDuration(start, &short))

	assert.Equal(t, "-", FormatDuration(start, nil))
}

func TestFormatElapsed(t *testing.T) {
	start := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	now := time.Date(2025, 1, 15, 12, 5, 9, 0, time.UTC)
	assert.Equal(t, "03:05:09", FormatElapsed(start, now))
	assert.Equal(t, "00:00:00", FormatElapsed(now, start))
}

func TestValidClock(t *testing.T) {
	assert.True(t, ValidClock("09:00"))
	assert.True(t, ValidClock("23:59"))
	assert.False(t, ValidClock("24:00"))
	assert.False(t, ValidClock("9am"))
	assert.False(t, ValidClock(""))
}

func TestResolveClock_UsesSessionDay(t *testing.T) {
	day := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	got, err := ResolveClock("17:00", day, time.UTC)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 2, 17, 0, 0, 0, time.UTC), got)
}
