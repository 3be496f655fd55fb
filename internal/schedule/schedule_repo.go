package schedule

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, s *Schedule) error
	FindLatest(ctx context.Context) (*Schedule, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Schedule) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindLatest(ctx context.Context) (*Schedule, error) {
	var s Schedule
	err := r.db.WithContext(ctx).
		Preload("WorkDays", func(db *gorm.DB) *gorm.DB { return db.Order("work_date ASC") }).
		Order("uploaded_at DESC").
		First(&s).Error
	return &s, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Select("WorkDays").
		Delete(&Schedule{}, "id = ?", id).Error
}
