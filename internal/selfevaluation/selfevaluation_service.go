package selfevaluation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-peval/internal/activity"
	"go-peval/internal/evaluationperiod"
	perioderrors "go-peval/internal/evaluationperiod/errors"
	"go-peval/internal/periodmapping"
	mappingerrors "go-peval/internal/periodmapping/errors"
	selfevaluationerrors "go-peval/internal/selfevaluation/errors"
	"go-peval/internal/shared/apperror"
	"go-peval/internal/wbs"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	summaryCachePrefix = "peval:self-evaluation:summary:"
	summaryCacheTTL    = 5 * time.Minute
)

// submissionStage selects how far a bulk pass advances each item.
type submissionStage int

const (
	stageEvaluator submissionStage = iota
	stageBoth
)

//go:generate mockgen -source=selfevaluation_service.go -destination=mock/selfevaluation_service_mock.go -package=mock
type Service interface {
	SubmitToEvaluator(ctx context.Context, evaluationID, submittedBy string) (EvaluationResponse, error)
	SubmitToManager(ctx context.Context, evaluationID, submittedBy string) (EvaluationResponse, error)
	SubmitAllToEvaluator(ctx context.Context, periodID, employeeID, submittedBy string) (BulkSubmissionResponse, error)
	SubmitAllForApproval(ctx context.Context, periodID, employeeID, submittedBy string) (BulkSubmissionResponse, error)
	SubmitByProject(ctx context.Context, periodID, employeeID, projectID, submittedBy string) (BulkSubmissionResponse, error)
	UpdateContent(ctx context.Context, evaluationID, employeeID string, req UpdateContentRequest) (EvaluationResponse, error)
	CompletionSummary(ctx context.Context, periodID, employeeID string) (CompletionSummaryResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	periodRepo  evaluationperiod.Repository
	mappingRepo periodmapping.Repository
	wbsRepo     wbs.Repository
	cache       *redis.Client
	recorder    activity.Recorder
	sf          *singleflight.Group
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	periodRepo evaluationperiod.Repository,
	mappingRepo periodmapping.Repository,
	wbsRepo wbs.Repository,
	cache *redis.Client,
	recorder activity.Recorder,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("selfevaluation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("selfevaluation.service")
	}
	if recorder == nil {
		recorder = activity.NopRecorder{}
	}
	return &service{
		db:          db,
		repo:        repo,
		periodRepo:  periodRepo,
		mappingRepo: mappingRepo,
		wbsRepo:     wbsRepo,
		cache:       cache,
		recorder:    recorder,
		sf:          &singleflight.Group{},
		logger:      l,
	}
}

func (s *service) SubmitToEvaluator(ctx context.Context, evaluationID, submittedBy string) (EvaluationResponse, error) {
	if _, err := uuid.Parse(evaluationID); err != nil {
		return EvaluationResponse{}, selfevaluationerrors.ErrInvalidEvaluationID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EvaluationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindByID(ctx, evaluationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EvaluationResponse{}, selfevaluationerrors.ErrEvaluationNotFound
		}
		return EvaluationResponse{}, err
	}

	// Repeating a completed stage is a no-op, never an overwrite.
	if e.SubmittedToEvaluatorAt != nil {
		return mapToEvaluationResponse(e), tx.Commit()
	}

	maxRate, err := s.maxRateForPeriod(ctx, tx, e.PeriodID.String())
	if err != nil {
		return EvaluationResponse{}, err
	}
	if err := validateSubmittable(e, maxRate); err != nil {
		return EvaluationResponse{}, err
	}

	now := time.Now().UTC()
	e.SubmittedToEvaluatorAt = &now
	updated, err := qtx.Update(ctx, e)
	if err != nil {
		s.logger.Error("submit to evaluator persist failed",
			zap.String("evaluation_id", evaluationID), zap.Error(err))
		return EvaluationResponse{}, err
	}
	if !updated {
		return EvaluationResponse{}, selfevaluationerrors.ErrVersionConflict
	}

	if err := tx.Commit(); err != nil {
		return EvaluationResponse{}, err
	}

	s.recorder.Record(ctx, submittedBy, "SUBMIT_TO_EVALUATOR", "wbs_self_evaluation", evaluationID, "")
	s.invalidateSummary(ctx, e.PeriodID.String(), e.EmployeeID.String())
	s.logger.Info("self-evaluation submitted to evaluator", zap.String("evaluation_id", evaluationID))

	return mapToEvaluationResponse(e), nil
}

func (s *service) SubmitToManager(ctx context.Context, evaluationID, submittedBy string) (EvaluationResponse, error) {
	if _, err := uuid.Parse(evaluationID); err != nil {
		return EvaluationResponse{}, selfevaluationerrors.ErrInvalidEvaluationID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EvaluationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindByID(ctx, evaluationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EvaluationResponse{}, selfevaluationerrors.ErrEvaluationNotFound
		}
		return EvaluationResponse{}, err
	}

	// The single-item endpoint is one-shot by contract.
	if e.IsCompleted {
		return EvaluationResponse{}, selfevaluationerrors.ErrAlreadyCompleted
	}
	if e.SubmittedToEvaluatorAt == nil {
		return EvaluationResponse{}, selfevaluationerrors.ErrEvaluatorStageRequired
	}

	now := time.Now().UTC()
	e.SubmittedToManagerAt = &now
	e.IsCompleted = true
	e.CompletedAt = &now
	updated, err := qtx.Update(ctx, e)
	if err != nil {
		s.logger.Error("submit to manager persist failed",
			zap.String("evaluation_id", evaluationID), zap.Error(err))
		return EvaluationResponse{}, err
	}
	if !updated {
		return EvaluationResponse{}, selfevaluationerrors.ErrVersionConflict
	}

	if err := tx.Commit(); err != nil {
		return EvaluationResponse{}, err
	}

	s.recorder.Record(ctx, submittedBy, "SUBMIT_TO_MANAGER", "wbs_self_evaluation", evaluationID, "")
	s.invalidateSummary(ctx, e.PeriodID.String(), e.EmployeeID.String())
	s.logger.Info("self-evaluation submitted to manager", zap.String("evaluation_id", evaluationID))

	return mapToEvaluationResponse(e), nil
}

func (s *service) SubmitAllToEvaluator(ctx context.Context, periodID, employeeID, submittedBy string) (BulkSubmissionResponse, error) {
	return s.bulkSubmit(ctx, periodID, employeeID, submittedBy, stageEvaluator, nil)
}

func (s *service) SubmitAllForApproval(ctx context.Context, periodID, employeeID, submittedBy string) (BulkSubmissionResponse, error) {
	return s.bulkSubmit(ctx, periodID, employeeID, submittedBy, stageBoth, nil)
}

func (s *service) SubmitByProject(ctx context.Context, periodID, employeeID, projectID, submittedBy string) (BulkSubmissionResponse, error) {
	if _, err := uuid.Parse(projectID); err != nil {
		return BulkSubmissionResponse{}, selfevaluationerrors.ErrNoAssignments
	}

	itemIDs, err := s.wbsRepo.FindAssignedItemIDs(ctx, periodID, employeeID, projectID)
	if err != nil {
		s.logger.Error("resolve wbs assignments failed",
			zap.String("period_id", periodID),
			zap.String("project_id", projectID),
			zap.Error(err),
		)
		return BulkSubmissionResponse{}, err
	}
	if len(itemIDs) == 0 {
		return BulkSubmissionResponse{}, selfevaluationerrors.ErrNoAssignments
	}

	return s.bulkSubmit(ctx, periodID, employeeID, submittedBy, stageBoth, itemIDs)
}

// bulkSubmit advances every matching evaluation inside one transaction.
// Per-item failures are recovered locally and reported in the response body;
// only a transaction-level failure aborts the request.
func (s *service) bulkSubmit(ctx context.Context, periodID, employeeID, submittedBy string, stage submissionStage, itemIDs []string) (BulkSubmissionResponse, error) {
	if _, err := uuid.Parse(periodID); err != nil {
		return BulkSubmissionResponse{}, perioderrors.ErrInvalidPeriodID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return BulkSubmissionResponse{}, selfevaluationerrors.ErrInvalidEvaluationID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BulkSubmissionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	maxRate, err := s.maxRateForPeriod(ctx, tx, periodID)
	if err != nil {
		return BulkSubmissionResponse{}, err
	}

	var evaluations []WbsSelfEvaluation
	if itemIDs == nil {
		evaluations, err = qtx.FindByEmployeeAndPeriod(ctx, periodID, employeeID)
	} else {
		evaluations, err = qtx.FindByEmployeePeriodAndItems(ctx, periodID, employeeID, itemIDs)
	}
	if err != nil {
		return BulkSubmissionResponse{}, err
	}
	if itemIDs != nil && len(evaluations) == 0 {
		return BulkSubmissionResponse{}, selfevaluationerrors.ErrNoEvaluations
	}

	now := time.Now().UTC()
	result := BulkSubmissionResponse{
		TotalCount:           len(evaluations),
		CompletedEvaluations: []string{},
		FailedEvaluations:    []FailedEvaluation{},
	}

	for i := range evaluations {
		e := &evaluations[i]
		if err := s.advanceItem(ctx, qtx, e, stage, maxRate, now); err != nil {
			result.FailedEvaluations = append(result.FailedEvaluations, FailedEvaluation{
				ID:     e.ID.String(),
				Reason: failureReason(err),
			})
			continue
		}
		result.CompletedEvaluations = append(result.CompletedEvaluations, e.ID.String())
	}
	result.SubmittedCount = len(result.CompletedEvaluations)
	result.FailedCount = len(result.FailedEvaluations)

	if err := tx.Commit(); err != nil {
		return BulkSubmissionResponse{}, err
	}

	s.recorder.Record(ctx, submittedBy, "SUBMIT_BULK", "evaluation_period", periodID,
		fmt.Sprintf("submitted=%d failed=%d", result.SubmittedCount, result.FailedCount))
	s.invalidateSummary(ctx, periodID, employeeID)
	s.logger.Info("bulk self-evaluation submission finished",
		zap.String("period_id", periodID),
		zap.String("employee_id", employeeID),
		zap.Int("submitted", result.SubmittedCount),
		zap.Int("failed", result.FailedCount),
	)

	return result, nil
}

// advanceItem pushes one evaluation through the requested stages. Items that
// already finished every requested stage are idempotent successes.
func (s *service) advanceItem(ctx context.Context, qtx Repository, e *WbsSelfEvaluation, stage submissionStage, maxRate int, now time.Time) error {
	if e.IsCompleted {
		return nil
	}
	if stage == stageEvaluator && e.SubmittedToEvaluatorAt != nil {
		return nil
	}

	if e.SubmittedToEvaluatorAt == nil {
		if err := validateSubmittable(e, maxRate); err != nil {
			return err
		}
		e.SubmittedToEvaluatorAt = &now
	}

	if stage == stageBoth {
		e.SubmittedToManagerAt = &now
		e.IsCompleted = true
		e.CompletedAt = &now
	}

	updated, err := qtx.Update(ctx, e)
	if err != nil {
		return err
	}
	if !updated {
		return selfevaluationerrors.ErrVersionConflict
	}
	return nil
}

func (s *service) UpdateContent(ctx context.Context, evaluationID, employeeID string, req UpdateContentRequest) (EvaluationResponse, error) {
	if _, err := uuid.Parse(evaluationID); err != nil {
		return EvaluationResponse{}, selfevaluationerrors.ErrInvalidEvaluationID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EvaluationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindByID(ctx, evaluationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EvaluationResponse{}, selfevaluationerrors.ErrEvaluationNotFound
		}
		return EvaluationResponse{}, err
	}
	if e.EmployeeID.String() != employeeID {
		return EvaluationResponse{}, selfevaluationerrors.ErrNotOwner
	}

	mapping, err := s.mappingRepo.WithTx(tx).FindByPeriodAndEmployee(ctx, e.PeriodID.String(), employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EvaluationResponse{}, mappingerrors.ErrMappingNotFound
		}
		return EvaluationResponse{}, err
	}
	if !mapping.IsSelfEvaluationEditable {
		return EvaluationResponse{}, selfevaluationerrors.ErrNotEditable
	}

	if req.Score != nil {
		maxRate, err := s.maxRateForPeriod(ctx, tx, e.PeriodID.String())
		if err != nil {
			return EvaluationResponse{}, err
		}
		if *req.Score < 0 || *req.Score > float64(maxRate) {
			return EvaluationResponse{}, selfevaluationerrors.ErrScoreOutOfRange
		}
		e.Score = req.Score
	}
	if req.Content != nil {
		e.Content = req.Content
	}

	updated, err := qtx.Update(ctx, e)
	if err != nil {
		s.logger.Error("update self-evaluation content persist failed",
			zap.String("evaluation_id", evaluationID), zap.Error(err))
		return EvaluationResponse{}, err
	}
	if !updated {
		return EvaluationResponse{}, selfevaluationerrors.ErrVersionConflict
	}

	if err := tx.Commit(); err != nil {
		return EvaluationResponse{}, err
	}

	s.recorder.Record(ctx, employeeID, "UPDATE_CONTENT", "wbs_self_evaluation", evaluationID, "")
	return mapToEvaluationResponse(e), nil
}

func (s *service) CompletionSummary(ctx context.Context, periodID, employeeID string) (CompletionSummaryResponse, error) {
	if _, err := uuid.Parse(periodID); err != nil {
		return CompletionSummaryResponse{}, perioderrors.ErrInvalidPeriodID
	}

	key := summaryCacheKey(periodID, employeeID)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			var summary CompletionSummaryResponse
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return summary, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("summary cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	// Rebuilds for the same key collapse into one query under load.
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		counts, err := s.repo.CountCompletion(ctx, periodID, employeeID)
		if err != nil {
			return nil, err
		}

		summary := CompletionSummaryResponse{
			PeriodID:             periodID,
			EmployeeID:           employeeID,
			Total:                counts.Total,
			SubmittedToEvaluator: counts.SubmittedToEvaluator,
			Completed:            counts.Completed,
		}
		if counts.Total > 0 {
			summary.CompletionRate = float64(counts.Completed) / float64(counts.Total)
		}

		if s.cache != nil {
			if payload, err := json.Marshal(summary); err == nil {
				if err := s.cache.Set(ctx, key, payload, summaryCacheTTL).Err(); err != nil {
					s.logger.Warn("summary cache write failed", zap.String("key", key), zap.Error(err))
				}
			}
		}
		return summary, nil
	})
	if err != nil {
		return CompletionSummaryResponse{}, err
	}
	return v.(CompletionSummaryResponse), nil
}

func (s *service) invalidateSummary(ctx context.Context, periodID, employeeID string) {
	if s.cache == nil {
		return
	}
	key := summaryCacheKey(periodID, employeeID)
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("summary cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

func summaryCacheKey(periodID, employeeID string) string {
	return summaryCachePrefix + periodID + ":" + employeeID
}

func (s *service) maxRateForPeriod(ctx context.Context, tx *sql.Tx, periodID string) (int, error) {
	period, err := s.periodRepo.WithTx(tx).FindByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, perioderrors.ErrPeriodNotFound
		}
		return 0, err
	}
	return period.MaxSelfEvaluationRate, nil
}

func validateSubmittable(e *WbsSelfEvaluation, maxRate int) error {
	if e.Content == nil || strings.TrimSpace(*e.Content) == "" {
		return selfevaluationerrors.ErrContentRequired
	}
	if e.Score == nil {
		return selfevaluationerrors.ErrScoreRequired
	}
	if *e.Score < 0 || *e.Score > float64(maxRate) {
		return selfevaluationerrors.ErrScoreOutOfRange
	}
	return nil
}

// failureReason keeps bulk reasons human-readable without leaking internals
// for unexpected errors.
func failureReason(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "unexpected error while processing the evaluation"
}

func mapToEvaluationResponse(e *WbsSelfEvaluation) EvaluationResponse {
	return EvaluationResponse{
		ID:                     e.ID.String(),
		PeriodID:               e.PeriodID.String(),
		EmployeeID:             e.EmployeeID.String(),
		WbsItemID:              e.WbsItemID.String(),
		Content:                e.Content,
		Score:                  e.Score,
		PerformanceResult:      e.PerformanceResult,
		SubmittedToEvaluatorAt: e.SubmittedToEvaluatorAt,
		SubmittedToManagerAt:   e.SubmittedToManagerAt,
		IsCompleted:            e.IsCompleted,
		CompletedAt:            e.CompletedAt,
	}
}
