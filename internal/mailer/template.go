package mailer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ReportFields are the values substituted into the subject and body
// templates. Supported placeholders: {date} {start_time} {end_time}
// {overtime_hours} {overtime_minutes} {photo_count}.
type ReportFields struct {
	Date            string
	StartTime       time.Time
	EndTime         *time.Time
	OvertimeMinutes int
	PhotoCount      int
}

// Render substitutes the report fields into a template. Unknown
// placeholders are left untouched.
func Render(template string, f ReportFields) string {
	endTime := "-"
	if f.EndTime != nil {
		endTime = f.EndTime.Format("15:04")
	}

	replacer := strings.NewReplacer(
		"{date}", f.Date,
		"{start_time}", f.StartTime.Format("15:04"),
		"{end_time}", endTime,
		"{overtime_hours}", fmt.Sprintf("%.2f", float64(f.OvertimeMinutes)/60),
		"{overtime_minutes}", strconv.Itoa(f.OvertimeMinutes),
		"{photo_count}", strconv.Itoa(f.PhotoCount),
	)
	return replacer.Replace(template)
}
