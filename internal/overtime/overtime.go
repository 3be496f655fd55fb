// Package overtime evaluates a closed work session against the day's
// scheduled times.
package overtime

import (
	"fmt"
	"math"
	"regexp"
	"time"
)

var clockRe = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// ValidClock reports whether s is a well-formed HH:MM wall-clock time.
func ValidClock(s string) bool {
	return clockRe.MatchString(s)
}

// ResolveClock places an HH:MM wall-clock time on the given calendar day in
// the supplied location.
func ResolveClock(clock string, day time.Time, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("15:04", clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock time %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

// ComputeMinutes returns the overtime minutes for a session that ended at
// actualEnd against a scheduled end of scheduledEnd (HH:MM) on the session's
// calendar day. Nil scheduled end means overtime is undefined and nil is
// returned. Negative overtime clamps to zero.
func ComputeMinutes(scheduledEnd *string, actualEnd time.Time, day time.Time, loc *time.Location) (*int, error) {
	if scheduledEnd == nil || *scheduledEnd == "" {
		return nil, nil
	}
	end, err := ResolveClock(*scheduledEnd, day, loc)
	if err != nil {
		return nil, err
	}
	minutes := int(math.Round(actualEnd.In(loc).Sub(end).Minutes()))
	if minutes < 0 {
		minutes = 0
	}
	return &minutes, nil
}

// FormatDuration renders the worked span as "<H>val <M>min" (hours floored,
// remainder minutes floored). An open session renders as "-".
func FormatDuration(start time.Time, end *time.Time) string {
	if end == nil {
		return "-"
	}
	minutes := int(end.Sub(start).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dval %dmin", minutes/60, minutes%60)
}

// FormatElapsed renders a live elapsed span as HH:MM:SS for the status
// display.
func FormatElapsed(start, now time.Time) string {
	d := now.Sub(start)
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
