package settings

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Find(ctx context.Context) (*Settings, error)
	Create(ctx context.Context, s *Settings) error
	Save(ctx context.Context, s *Settings) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Find(ctx context.Context) (*Settings, error) {
	var s Settings
	err := r.db.WithContext(ctx).Order("updated_at DESC").First(&s).Error
	return &s, err
}

func (r *repository) Create(ctx context.Context, s *Settings) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) Save(ctx context.Context, s *Settings) error {
	return r.db.WithContext(ctx).Save(s).Error
}
