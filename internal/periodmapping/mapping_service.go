package periodmapping

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-peval/internal/activity"
	"go-peval/internal/evaluationperiod"
	perioderrors "go-peval/internal/evaluationperiod/errors"
	mappingerrors "go-peval/internal/periodmapping/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	EvaluationTypeSelf      = "self"
	EvaluationTypePrimary   = "primary"
	EvaluationTypeSecondary = "secondary"
	EvaluationTypeAll       = "all"
)

//go:generate mockgen -source=mapping_service.go -destination=mock/mapping_service_mock.go -package=mock
type Service interface {
	SetEditable(ctx context.Context, mappingID, evaluationType string, isEditable bool, updatedBy string) (MappingResponse, error)
	SetEditableForPeriod(ctx context.Context, periodID string, req BulkEditableStatusRequest) (BulkEditableStatusResponse, error)
	Exclude(ctx context.Context, mappingID, reason, actorID string) (MappingResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	periodRepo evaluationperiod.Repository
	recorder   activity.Recorder
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	periodRepo evaluationperiod.Repository,
	recorder activity.Recorder,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("periodmapping.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("periodmapping.service")
	}
	if recorder == nil {
		recorder = activity.NopRecorder{}
	}
	return &service{db: db, repo: repo, periodRepo: periodRepo, recorder: recorder, logger: l}
}

// editableColumns resolves an evaluation type into the column set the gate
// writes. The gate is an unconditional write by contract: no state-machine
// validation happens here.
func editableColumns(evaluationType string, isEditable bool) (map[string]any, error) {
	switch strings.ToLower(evaluationType) {
	case EvaluationTypeSelf:
		return map[string]any{"is_self_evaluation_editable": isEditable}, nil
	case EvaluationTypePrimary:
		return map[string]any{"is_primary_evaluation_editable": isEditable}, nil
	case EvaluationTypeSecondary:
		return map[string]any{"is_secondary_evaluation_editable": isEditable}, nil
	case EvaluationTypeAll:
		return map[string]any{
			"is_self_evaluation_editable":      isEditable,
			"is_primary_evaluation_editable":   isEditable,
			"is_secondary_evaluation_editable": isEditable,
		}, nil
	default:
		return nil, mappingerrors.ErrInvalidEvaluationType
	}
}

func (s *service) SetEditable(ctx context.Context, mappingID, evaluationType string, isEditable bool, updatedBy string) (MappingResponse, error) {
	if _, err := uuid.Parse(mappingID); err != nil {
		return MappingResponse{}, mappingerrors.ErrInvalidMappingID
	}

	updates, err := editableColumns(evaluationType, isEditable)
	if err != nil {
		return MappingResponse{}, err
	}
	if updatedBy != "" {
		updates["updated_by"] = updatedBy
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("set editable begin tx failed", zap.Error(err))
		return MappingResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	updated, err := qtx.UpdateColumns(ctx, mappingID, updates)
	if err != nil {
		s.logger.Error("set editable persist failed",
			zap.String("mapping_id", mappingID), zap.Error(err))
		return MappingResponse{}, err
	}
	if !updated {
		return MappingResponse{}, mappingerrors.ErrMappingNotFound
	}

	m, err := qtx.FindByID(ctx, mappingID)
	if err != nil {
		return MappingResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return MappingResponse{}, err
	}

	s.recorder.Record(ctx, updatedBy, "SET_EDITABLE", "employee_mapping", mappingID, evaluationType)
	s.logger.Info("editable status updated",
		zap.String("mapping_id", mappingID),
		zap.String("evaluation_type", evaluationType),
		zap.Bool("is_editable", isEditable),
	)

	return mapToMappingResponse(m), nil
}

func (s *service) SetEditableForPeriod(ctx context.Context, periodID string, req BulkEditableStatusRequest) (BulkEditableStatusResponse, error) {
	if _, err := uuid.Parse(periodID); err != nil {
		return BulkEditableStatusResponse{}, perioderrors.ErrInvalidPeriodID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("bulk set editable begin tx failed", zap.Error(err))
		return BulkEditableStatusResponse{}, err
	}
	defer tx.Rollback()

	// The zero-mapping case succeeds with count 0, so existence must be
	// checked against the period itself, not the affected row count.
	if _, err := s.periodRepo.WithTx(tx).FindByID(ctx, periodID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BulkEditableStatusResponse{}, perioderrors.ErrPeriodNotFound
		}
		return BulkEditableStatusResponse{}, err
	}

	count, err := s.repo.WithTx(tx).UpdateEditableForPeriod(
		ctx, periodID,
		*req.IsSelfEvaluationEditable,
		*req.IsPrimaryEvaluationEditable,
		*req.IsSecondaryEvaluationEditable,
		req.UpdatedBy,
	)
	if err != nil {
		s.logger.Error("bulk set editable persist failed",
			zap.String("period_id", periodID), zap.Error(err))
		return BulkEditableStatusResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return BulkEditableStatusResponse{}, err
	}

	s.recorder.Record(ctx, req.UpdatedBy, "SET_EDITABLE_BULK", "evaluation_period", periodID, "")
	s.logger.Info("editable status bulk updated",
		zap.String("period_id", periodID),
		zap.Int64("updated_count", count),
	)

	return BulkEditableStatusResponse{UpdatedCount: count}, nil
}

func (s *service) Exclude(ctx context.Context, mappingID, reason, actorID string) (MappingResponse, error) {
	if _, err := uuid.Parse(mappingID); err != nil {
		return MappingResponse{}, mappingerrors.ErrInvalidMappingID
	}
	if strings.TrimSpace(reason) == "" {
		return MappingResponse{}, mappingerrors.ErrExclusionReasonRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return MappingResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	now := time.Now().UTC()
	updated, err := qtx.UpdateColumns(ctx, mappingID, map[string]any{
		"is_excluded":      true,
		"exclusion_reason": reason,
		"excluded_by":      actorID,
		"excluded_at":      now,
	})
	if err != nil {
		s.logger.Error("exclude mapping persist failed",
			zap.String("mapping_id", mappingID), zap.Error(err))
		return MappingResponse{}, err
	}
	if !updated {
		return MappingResponse{}, mappingerrors.ErrMappingNotFound
	}

	m, err := qtx.FindByID(ctx, mappingID)
	if err != nil {
		return MappingResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return MappingResponse{}, err
	}

	s.recorder.Record(ctx, actorID, "EXCLUDE", "employee_mapping", mappingID, reason)
	s.logger.Info("employee excluded from period", zap.String("mapping_id", mappingID))

	return mapToMappingResponse(m), nil
}

func mapToMappingResponse(m *EvaluationPeriodEmployeeMapping) MappingResponse {
	resp := MappingResponse{
		ID:                            m.ID.String(),
		PeriodID:                      m.PeriodID.String(),
		EmployeeID:                    m.EmployeeID.String(),
		IsExcluded:                    m.IsExcluded,
		ExclusionReason:               m.ExclusionReason,
		ExcludedBy:                    m.ExcludedBy,
		IsSelfEvaluationEditable:      m.IsSelfEvaluationEditable,
		IsPrimaryEvaluationEditable:   m.IsPrimaryEvaluationEditable,
		IsSecondaryEvaluationEditable: m.IsSecondaryEvaluationEditable,
	}
	if m.ExcludedAt != nil {
		v := m.ExcludedAt.Format(time.RFC3339)
		resp.ExcludedAt = &v
	}
	return resp
}
