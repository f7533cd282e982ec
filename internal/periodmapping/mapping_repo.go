package periodmapping

import (
	"context"
	"database/sql"
	"errors"

	mappingerrors "go-peval/internal/periodmapping/errors"
	"go-peval/internal/shared/connection"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

//go:generate mockgen -source=mapping_repo.go -destination=mock/mapping_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, m *EvaluationPeriodEmployeeMapping) error
	FindByID(ctx context.Context, id string) (*EvaluationPeriodEmployeeMapping, error)
	FindByPeriodAndEmployee(ctx context.Context, periodID, employeeID string) (*EvaluationPeriodEmployeeMapping, error)
	UpdateColumns(ctx context.Context, id string, updates map[string]any) (bool, error)
	UpdateEditableForPeriod(ctx context.Context, periodID string, selfEditable, primaryEditable, secondaryEditable bool, updatedBy string) (int64, error)
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

func (r *repository) Create(ctx context.Context, m *EvaluationPeriodEmployeeMapping) error {
	err := r.db.WithContext(ctx).Create(m).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return mappingerrors.ErrDuplicateMapping
	}
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*EvaluationPeriodEmployeeMapping, error) {
	var m EvaluationPeriodEmployeeMapping
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *repository) FindByPeriodAndEmployee(ctx context.Context, periodID, employeeID string) (*EvaluationPeriodEmployeeMapping, error) {
	var m EvaluationPeriodEmployeeMapping
	err := r.db.WithContext(ctx).
		First(&m, "period_id = ? AND employee_id = ?", periodID, employeeID).Error
	return &m, err
}

func (r *repository) UpdateColumns(ctx context.Context, id string, updates map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&EvaluationPeriodEmployeeMapping{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) UpdateEditableForPeriod(ctx context.Context, periodID string, selfEditable, primaryEditable, secondaryEditable bool, updatedBy string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&EvaluationPeriodEmployeeMapping{}).
		Where("period_id = ?", periodID).
		Updates(map[string]any{
			"is_self_evaluation_editable":      selfEditable,
			"is_primary_evaluation_editable":   primaryEditable,
			"is_secondary_evaluation_editable": secondaryEditable,
			"updated_by":                       updatedBy,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
