package worksession

import (
	"time"

	"github.com/google/uuid"
)

// WorkSession is one tracked shift. A session is active while EndTime is
// nil; the store allows at most one active row and is the single source of
// truth the agent's race guard consults.
type WorkSession struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Date            time.Time      `gorm:"column:session_date;type:date;not null;index"`
	StartTime       time.Time      `gorm:"column:start_time;type:timestamptz;not null;index"`
	EndTime         *time.Time     `gorm:"column:end_time;type:timestamptz"`
	StartLatitude   float64        `gorm:"column:start_latitude"`
	StartLongitude  float64        `gorm:"column:start_longitude"`
	EndLatitude     *float64       `gorm:"column:end_latitude"`
	EndLongitude    *float64       `gorm:"column:end_longitude"`
	ScheduledStart  *string        `gorm:"column:scheduled_start;type:varchar(5)"`
	ScheduledEnd    *string        `gorm:"column:scheduled_end;type:varchar(5)"`
	OvertimeMinutes *int           `gorm:"column:overtime_minutes"`
	EmailSent       bool           `gorm:"column:email_sent;not null;default:false"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
	Photos          []SessionPhoto `gorm:"foreignKey:SessionID;references:ID"`
}

func (WorkSession) TableName() string {
	return "work_sessions"
}

// Active reports whether the session has not been closed yet.
func (s *WorkSession) Active() bool {
	return s.EndTime == nil
}

// SessionPhoto is one captured progress photo, ordered by capture time.
type SessionPhoto struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID uuid.UUID `gorm:"column:session_id;type:uuid;not null;index"`
	Data      string    `gorm:"column:data;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SessionPhoto) TableName() string {
	return "session_photos"
}
