package settings

import (
	"time"

	"github.com/google/uuid"
)

// Settings is the single process-wide configuration row. The work location
// triple is flattened into nullable columns; all three are set together or
// not at all.
type Settings struct {
	ID                       uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ReminderIntervalMinutes  int       `gorm:"column:reminder_interval_minutes;not null;default:15"`
	ReminderDurationSeconds  int       `gorm:"column:reminder_duration_seconds;not null;default:10"`
	EndOfDayReminderMinutes  int       `gorm:"column:end_of_day_reminder_minutes;not null;default:15"`
	OvertimeThresholdMinutes int       `gorm:"column:overtime_threshold_minutes;not null;default:5"`
	GeofenceRadiusMeters     int       `gorm:"column:geofence_radius_meters;not null;default:100"`
	AutoSendEmailOnGeofence  bool      `gorm:"column:auto_send_email_on_geofence;not null;default:false"`
	WorkLatitude             *float64  `gorm:"column:work_latitude"`
	WorkLongitude            *float64  `gorm:"column:work_longitude"`
	WorkRadiusMeters         *int      `gorm:"column:work_radius_meters"`
	RecipientEmail           string    `gorm:"column:recipient_email;type:varchar(320);not null;default:''"`
	EmailSubject             string    `gorm:"column:email_subject;type:varchar(200);not null"`
	EmailBodyTemplate        string    `gorm:"column:email_body_template;type:text;not null"`
	UpdatedAt                time.Time `gorm:"column:updated_at"`
}

func (Settings) TableName() string {
	return "settings"
}

const (
	DefaultReminderIntervalMinutes  = 15
	DefaultReminderDurationSeconds  = 10
	DefaultEndOfDayReminderMinutes  = 15
	DefaultOvertimeThresholdMinutes = 5
	DefaultGeofenceRadiusMeters     = 100
)

const DefaultEmailSubject = "Overtime report {date}"

const DefaultEmailBodyTemplate = `Overtime report for {date}.

Work started: {start_time}
Work ended: {end_time}
Overtime: {overtime_hours} h ({overtime_minutes} min)
Photos attached: {photo_count}
`

// NewDefaults builds the row written on first read.
func NewDefaults() *Settings {
	return &Settings{
		ID:                       uuid.New(),
		ReminderIntervalMinutes:  DefaultReminderIntervalMinutes,
		ReminderDurationSeconds:  DefaultReminderDurationSeconds,
		EndOfDayReminderMinutes:  DefaultEndOfDayReminderMinutes,
		OvertimeThresholdMinutes: DefaultOvertimeThresholdMinutes,
		GeofenceRadiusMeters:     DefaultGeofenceRadiusMeters,
		EmailSubject:             DefaultEmailSubject,
		EmailBodyTemplate:        DefaultEmailBodyTemplate,
	}
}
