package evaluationperiod

import (
	"context"
	"database/sql"
	"time"

	"go-peval/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=period_repo.go -destination=mock/period_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindAll(ctx context.Context) ([]EvaluationPeriod, error)
	FindAllInProgress(ctx context.Context) ([]EvaluationPeriod, error)
	FindByID(ctx context.Context, id string) (*EvaluationPeriod, error)
	AdvancePhase(ctx context.Context, p *EvaluationPeriod, toPhase string, now time.Time) (bool, error)
	UpdateDeadlines(ctx context.Context, p *EvaluationPeriod) (bool, error)
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

func (r *repository) FindAll(ctx context.Context) ([]EvaluationPeriod, error) {
	var periods []EvaluationPeriod
	err := r.db.WithContext(ctx).
		Preload("GradeRanges", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Order("start_date DESC").
		Find(&periods).Error
	return periods, err
}

func (r *repository) FindAllInProgress(ctx context.Context) ([]EvaluationPeriod, error) {
	var periods []EvaluationPeriod
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusInProgress).
		Order("start_date ASC").
		Find(&periods).Error
	return periods, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*EvaluationPeriod, error) {
	var p EvaluationPeriod
	err := r.db.WithContext(ctx).
		Preload("GradeRanges", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&p, "id = ?", id).Error
	return &p, err
}

// AdvancePhase performs the conditional single-step write. The update is
// guarded on both the phase the caller read and the lock version, so a
// concurrent sweep that already advanced this period matches zero rows
// instead of advancing it twice.
func (r *repository) AdvancePhase(ctx context.Context, p *EvaluationPeriod, toPhase string, now time.Time) (bool, error) {
	updates := map[string]any{
		"current_phase": toPhase,
		"lock_version":  gorm.Expr("lock_version + 1"),
		"updated_at":    now,
	}
	if toPhase == PhaseClosure {
		updates["status"] = StatusCompleted
		updates["completed_date"] = now
	}

	res := r.db.WithContext(ctx).
		Model(&EvaluationPeriod{}).
		Where("id = ?", p.ID).
		Where("current_phase = ?", p.CurrentPhase).
		Where("lock_version = ?", p.LockVersion).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) UpdateDeadlines(ctx context.Context, p *EvaluationPeriod) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&EvaluationPeriod{}).
		Where("id = ?", p.ID).
		Where("lock_version = ?", p.LockVersion).
		Updates(map[string]any{
			"evaluation_setup_deadline": p.EvaluationSetupDeadline,
			"performance_deadline":      p.PerformanceDeadline,
			"self_evaluation_deadline":  p.SelfEvaluationDeadline,
			"peer_evaluation_deadline":  p.PeerEvaluationDeadline,
			"lock_version":              gorm.Expr("lock_version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
