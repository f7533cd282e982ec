package selfevaluation

import (
	"context"
	"database/sql"

	"go-peval/internal/shared/connection"

	"gorm.io/gorm"
)

// CompletionCounts aggregates one (period, employee) pair for the summary
// endpoint.
type CompletionCounts struct {
	Total                int64
	SubmittedToEvaluator int64
	Completed            int64
}

//go:generate mockgen -source=selfevaluation_repo.go -destination=mock/selfevaluation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByID(ctx context.Context, id string) (*WbsSelfEvaluation, error)
	FindByEmployeeAndPeriod(ctx context.Context, periodID, employeeID string) ([]WbsSelfEvaluation, error)
	FindByEmployeePeriodAndItems(ctx context.Context, periodID, employeeID string, itemIDs []string) ([]WbsSelfEvaluation, error)
	Update(ctx context.Context, evaluation *WbsSelfEvaluation) (bool, error)
	CountCompletion(ctx context.Context, periodID, employeeID string) (CompletionCounts, error)
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

func (r *repository) FindByID(ctx context.Context, id string) (*WbsSelfEvaluation, error) {
	var e WbsSelfEvaluation
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindByEmployeeAndPeriod(ctx context.Context, periodID, employeeID string) ([]WbsSelfEvaluation, error) {
	var evaluations []WbsSelfEvaluation
	err := r.db.WithContext(ctx).
		Where("period_id = ? AND employee_id = ?", periodID, employeeID).
		Order("created_at ASC").
		Find(&evaluations).Error
	return evaluations, err
}

func (r *repository) FindByEmployeePeriodAndItems(ctx context.Context, periodID, employeeID string, itemIDs []string) ([]WbsSelfEvaluation, error) {
	var evaluations []WbsSelfEvaluation
	err := r.db.WithContext(ctx).
		Where("period_id = ? AND employee_id = ?", periodID, employeeID).
		Where("wbs_item_id IN ?", itemIDs).
		Order("created_at ASC").
		Find(&evaluations).Error
	return evaluations, err
}

// Update writes conditionally on the lock version the caller read. A false
// return means another request changed the row in between.
func (r *repository) Update(ctx context.Context, evaluation *WbsSelfEvaluation) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&WbsSelfEvaluation{}).
		Where("id = ?", evaluation.ID).
		Where("lock_version = ?", evaluation.LockVersion).
		Updates(map[string]any{
			"content":                   evaluation.Content,
			"score":                     evaluation.Score,
			"performance_result":        evaluation.PerformanceResult,
			"submitted_to_evaluator_at": evaluation.SubmittedToEvaluatorAt,
			"submitted_to_manager_at":   evaluation.SubmittedToManagerAt,
			"is_completed":              evaluation.IsCompleted,
			"completed_at":              evaluation.CompletedAt,
			"lock_version":              gorm.Expr("lock_version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) CountCompletion(ctx context.Context, periodID, employeeID string) (CompletionCounts, error) {
	var counts CompletionCounts
	err := r.db.WithContext(ctx).
		Model(&WbsSelfEvaluation{}).
		Select(
			"COUNT(*) AS total",
			"COUNT(submitted_to_evaluator_at) AS submitted_to_evaluator",
			"COUNT(*) FILTER (WHERE is_completed) AS completed",
		).
		Where("period_id = ? AND employee_id = ?", periodID, employeeID).
		Scan(&counts).Error
	return counts, err
}
