package settings

import "time"

type WorkLocation struct {
	Latitude  float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"required,min=-180,max=180"`
	Radius    int     `json:"radius" binding:"required,min=1"`
}

// UpdateRequest carries a partial update; nil fields keep their stored
// values. ClearWorkLocation removes the work site, disabling geofencing.
type UpdateRequest struct {
	ReminderIntervalMinutes  *int          `json:"reminder_interval_minutes" binding:"omitempty,min=1"`
	ReminderDurationSeconds  *int          `json:"reminder_duration_seconds" binding:"omitempty,min=1"`
	EndOfDayReminderMinutes  *int          `json:"end_of_day_reminder_minutes" binding:"omitempty,min=0"`
	OvertimeThresholdMinutes *int          `json:"overtime_threshold_minutes" binding:"omitempty,min=0"`
	GeofenceRadiusMeters     *int          `json:"geofence_radius_meters" binding:"omitempty,min=1"`
	AutoSendEmailOnGeofence  *bool         `json:"auto_send_email_on_geofence"`
	WorkLocation             *WorkLocation `json:"work_location"`
	ClearWorkLocation        bool          `json:"clear_work_location"`
	RecipientEmail           *string       `json:"recipient_email" binding:"omitempty,email"`
	EmailSubject             *string       `json:"email_subject"`
	EmailBodyTemplate        *string       `json:"email_body_template"`
}

type Response struct {
	ReminderIntervalMinutes  int           `json:"reminder_interval_minutes"`
	ReminderDurationSeconds  int           `json:"reminder_duration_seconds"`
	EndOfDayReminderMinutes  int           `json:"end_of_day_reminder_minutes"`
	OvertimeThresholdMinutes int           `json:"overtime_threshold_minutes"`
	GeofenceRadiusMeters     int           `json:"geofence_radius_meters"`
	AutoSendEmailOnGeofence  bool          `json:"auto_send_email_on_geofence"`
	WorkLocation             *WorkLocation `json:"work_location"`
	RecipientEmail           string        `json:"recipient_email"`
	EmailSubject             string        `json:"email_subject"`
	EmailBodyTemplate        string        `json:"email_body_template"`
	UpdatedAt                time.Time     `json:"updated_at"`
}

func mapToResponse(s Settings) Response {
	resp := Response{
		ReminderIntervalMinutes:  s.ReminderIntervalMinutes,
		ReminderDurationSeconds:  s.ReminderDurationSeconds,
		EndOfDayReminderMinutes:  s.EndOfDayReminderMinutes,
		OvertimeThresholdMinutes: s.OvertimeThresholdMinutes,
		GeofenceRadiusMeters:     s.GeofenceRadiusMeters,
		AutoSendEmailOnGeofence:  s.AutoSendEmailOnGeofence,
		RecipientEmail:           s.RecipientEmail,
		EmailSubject:             s.EmailSubject,
		EmailBodyTemplate:        s.EmailBodyTemplate,
		UpdatedAt:                s.UpdatedAt,
	}
	if s.WorkLatitude != nil && s.WorkLongitude != nil {
		radius := s.GeofenceRadiusMeters
		if s.WorkRadiusMeters != nil {
			radius = *s.WorkRadiusMeters
		}
		resp.WorkLocation = &WorkLocation{
			Latitude:  *s.WorkLatitude,
			Longitude: *s.WorkLongitude,
			Radius:    radius,
		}
	}
	return resp
}
