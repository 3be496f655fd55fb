package schedule

import (
	"time"

	"github.com/google/uuid"
)

// Schedule is one uploaded (or manually entered) work plan. The most
// recently uploaded schedule is the current one.
type Schedule struct {
	ID         uuid.UUID     `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	SourceName string        `gorm:"column:source_name;type:varchar(255);not null"`
	UploadedAt time.Time     `gorm:"column:uploaded_at;not null;index"`
	WorkDays   []ScheduleDay `gorm:"foreignKey:ScheduleID;references:ID"`
}

func (Schedule) TableName() string {
	return "schedules"
}

// ScheduleDay is a single planned shift, unique per date within a schedule.
type ScheduleDay struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ScheduleID uuid.UUID `gorm:"column:schedule_id;type:uuid;not null;index:idx_schedule_date,unique"`
	Date       string    `gorm:"column:work_date;type:varchar(10);not null;index:idx_schedule_date,unique"`
	Start      string    `gorm:"column:start_clock;type:varchar(5);not null"`
	End        string    `gorm:"column:end_clock;type:varchar(5);not null"`
}

func (ScheduleDay) TableName() string {
	return "schedule_days"
}
