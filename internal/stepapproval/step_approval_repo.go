package stepapproval

import (
	"context"
	"database/sql"

	"go-peval/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=step_approval_repo.go -destination=mock/step_approval_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByKey(ctx context.Context, periodID, employeeID, step string, evaluatorID *string) (*EvaluationStepApproval, error)
	FindByStep(ctx context.Context, periodID, employeeID, step string) ([]EvaluationStepApproval, error)
	Create(ctx context.Context, approval *EvaluationStepApproval) error
	Update(ctx context.Context, approval *EvaluationStepApproval) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.GORMOverTx(r.db, tx)}
}

func (r *repository) FindByKey(ctx context.Context, periodID, employeeID, step string, evaluatorID *string) (*EvaluationStepApproval, error) {
	q := r.db.WithContext(ctx).
		Where("period_id = ? AND employee_id = ? AND step = ?", periodID, employeeID, step)
	if evaluatorID != nil {
		q = q.Where("evaluator_id = ?", *evaluatorID)
	} else {
		q = q.Where("evaluator_id IS NULL")
	}

	var approval EvaluationStepApproval
	err := q.First(&approval).Error
	return &approval, err
}

func (r *repository) FindByStep(ctx context.Context, periodID, employeeID, step string) ([]EvaluationStepApproval, error) {
	var approvals []EvaluationStepApproval
	err := r.db.WithContext(ctx).
		Where("period_id = ? AND employee_id = ? AND step = ?", periodID, employeeID, step).
		Find(&approvals).Error
	return approvals, err
}

func (r *repository) Create(ctx context.Context, approval *EvaluationStepApproval) error {
	return r.db.WithContext(ctx).Create(approval).Error
}

func (r *repository) Update(ctx context.Context, approval *EvaluationStepApproval) error {
	return r.db.WithContext(ctx).Save(approval).Error
}
