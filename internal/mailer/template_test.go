package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	start := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 15, 17, 47, 0, 0, time.UTC)

	fields := ReportFields{
		Date:            "2025-01-15",
		StartTime:       start,
		EndTime:         &end,
		OvertimeMinutes: 47,
		PhotoCount:      3,
	}

	tmpl := "Date {date}: {start_time}-{end_time}, overtime {overtime_hours} h ({overtime_minutes} min), {photo_count} photos"
	got := Render(tmpl, fields)
	assert.Equal(t, "Date 2025-01-15: 09:00-17:47, overtime 0.78 h (47 min), 3 photos", got)
}

func TestRender_OpenEndAndUnknownPlaceholder(t *testing.T) {
	fields := ReportFields{
		Date:      "2025-01-15",
		StartTime: time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
	}
	got := Render("{end_time} {unknown}", fields)
	assert.Equal(t, "- {unknown}", got)
}
