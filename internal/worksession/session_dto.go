package worksession

import (
	"time"

	"shiftwatch/internal/overtime"
)

type StartRequest struct {
	Date           string    `json:"date" binding:"required"`
	Latitude       float64   `json:"latitude" binding:"min=-90,max=90"`
	Longitude      float64   `json:"longitude" binding:"min=-180,max=180"`
	StartTimestamp time.Time `json:"start_timestamp" binding:"required"`
}

type EndRequest struct {
	SessionID string  `json:"session_id" binding:"required,uuid"`
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
}

// EditRequest rewrites a session's recorded times. Times are HH:MM on the
// given date; a nil end time reopens nothing — it clears the recorded end.
type EditRequest struct {
	SessionID string  `json:"session_id" binding:"required,uuid"`
	Date      string  `json:"date" binding:"required"`
	StartTime string  `json:"start_time" binding:"required"`
	EndTime   *string `json:"end_time"`
}

type PhotoRequest struct {
	SessionID   string `json:"session_id" binding:"required,uuid"`
	PhotoBase64 string `json:"photo_base64" binding:"required"`
}

type SessionResponse struct {
	ID              string   `json:"id"`
	Date            string   `json:"date"`
	StartTime       string   `json:"start_time"`
	EndTime         *string  `json:"end_time,omitempty"`
	ScheduledStart  *string  `json:"scheduled_start,omitempty"`
	ScheduledEnd    *string  `json:"scheduled_end,omitempty"`
	OvertimeMinutes *int     `json:"overtime_minutes,omitempty"`
	EmailSent       bool     `json:"email_sent"`
	PhotoCount      int      `json:"photo_count"`
	Duration        string   `json:"duration"`
}

func mapToResponse(s WorkSession) SessionResponse {
	resp := SessionResponse{
		ID:              s.ID.String(),
		Date:            s.Date.Format("2006-01-02"),
		StartTime:       s.StartTime.Format(time.RFC3339),
		ScheduledStart:  s.ScheduledStart,
		ScheduledEnd:    s.ScheduledEnd,
		OvertimeMinutes: s.OvertimeMinutes,
		EmailSent:       s.EmailSent,
		PhotoCount:      len(s.Photos),
		Duration:        overtime.FormatDuration(s.StartTime, s.EndTime),
	}
	if s.EndTime != nil {
		v := s.EndTime.Format(time.RFC3339)
		resp.EndTime = &v
	}
	return resp
}
