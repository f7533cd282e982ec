package wbs

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=wbs_repo.go -destination=mock/wbs_repo_mock.go -package=mock
type Repository interface {
	FindAssignedItemIDs(ctx context.Context, periodID, employeeID, projectID string) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAssignedItemIDs(ctx context.Context, periodID, employeeID, projectID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&WbsAssignment{}).
		Select("wbs_assignments.wbs_item_id::text").
		Joins("JOIN wbs_items ON wbs_items.id = wbs_assignments.wbs_item_id").
		Where("wbs_assignments.evaluation_period_id = ?", periodID).
		Where("wbs_assignments.employee_id = ?", employeeID).
		Where("wbs_items.project_id = ?", projectID).
		Where("wbs_items.deleted_at IS NULL").
		Scan(&ids).Error
	return ids, err
}
