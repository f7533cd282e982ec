package activity

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=activity_repo.go -destination=mock/activity_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, entry *ActivityLog) error
	FindByResource(ctx context.Context, resourceType, resourceID string, limit int) ([]ActivityLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindByResource(ctx context.Context, resourceType, resourceID string, limit int) ([]ActivityLog, error) {
	var logs []ActivityLog
	err := r.db.WithContext(ctx).
		Where("resource_type = ?", resourceType).
		Where("resource_id = ?", resourceID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
