package events

import "time"

const OvertimeEmailRequestedTopic = "shiftwatch.email.overtime.requested.v1"

// OvertimeEmailRequestedEvent is handed to the external mail delivery
// service. The body is fully rendered; photos travel by reference so the
// payload stays small.
type OvertimeEmailRequestedEvent struct {
	EventType       string    `json:"event_type"`
	SessionID       string    `json:"session_id"`
	RecipientEmail  string    `json:"recipient_email"`
	Subject         string    `json:"subject"`
	Body            string    `json:"body"`
	PhotoIDs        []string  `json:"photo_ids"`
	OvertimeMinutes int       `json:"overtime_minutes"`
	OccurredAt      time.Time `json:"occurred_at"`
}
