package worksession

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *WorkSession) error
	FindByID(ctx context.Context, id string) (*WorkSession, error)
	FindActive(ctx context.Context) (*WorkSession, error)
	Update(ctx context.Context, s *WorkSession) error
	AddPhoto(ctx context.Context, p *SessionPhoto) error
	ListRecent(ctx context.Context, limit int) ([]WorkSession, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, s *WorkSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*WorkSession, error) {
	var s WorkSession
	err := r.db.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).
		First(&s).Error
	return &s, err
}

func (r *repository) FindActive(ctx context.Context) (*WorkSession, error) {
	var s WorkSession
	err := r.db.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("end_time IS NULL").
		Order("start_time DESC").
		First(&s).Error
	return &s, err
}

func (r *repository) Update(ctx context.Context, s *WorkSession) error {
	return r.db.WithContext(ctx).Omit("Photos").Save(s).Error
}

func (r *repository) AddPhoto(ctx context.Context, p *SessionPhoto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]WorkSession, error) {
	var rows []WorkSession
	err := r.db.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Order("start_time DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
