package employee

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]Employee, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindByIDs(ctx context.Context, ids []string) (map[string]Employee, error) {
	var list []Employee
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&list).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]Employee, len(list))
	for _, e := range list {
		result[e.ID.String()] = e
	}
	return result, nil
}
