package stepapproval

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-peval/internal/activity"
	"go-peval/internal/periodmapping"
	stepapprovalerrors "go-peval/internal/stepapproval/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CascadeScope decides how a forward cascade treats the SECONDARY step,
// which holds one row per secondary evaluator.
type CascadeScope string

const (
	// CascadeAllEvaluators approves every existing secondary evaluator row
	// uniformly when the cascade reaches SECONDARY.
	CascadeAllEvaluators CascadeScope = "all-evaluators"
	// CascadeNone stops the cascade before SECONDARY; each secondary
	// evaluator row must be addressed individually.
	CascadeNone CascadeScope = "none"
)

//go:generate mockgen -source=step_approval_service.go -destination=mock/step_approval_service_mock.go -package=mock
type Service interface {
	ChangeStepStatus(ctx context.Context, cmd ChangeStepStatusCommand) (StepApprovalResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	mappingRepo periodmapping.Repository
	recorder    activity.Recorder
	scope       CascadeScope
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	mappingRepo periodmapping.Repository,
	recorder activity.Recorder,
	scope CascadeScope,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("stepapproval.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("stepapproval.service")
	}
	if recorder == nil {
		recorder = activity.NopRecorder{}
	}
	if scope != CascadeAllEvaluators && scope != CascadeNone {
		scope = CascadeAllEvaluators
	}
	return &service{db: db, repo: repo, mappingRepo: mappingRepo, recorder: recorder, scope: scope, logger: l}
}

func (s *service) ChangeStepStatus(ctx context.Context, cmd ChangeStepStatusCommand) (StepApprovalResponse, error) {
	if err := validateCommand(&cmd); err != nil {
		return StepApprovalResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("change step status begin tx failed", zap.Error(err))
		return StepApprovalResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := s.mappingRepo.WithTx(tx).FindByPeriodAndEmployee(ctx, cmd.PeriodID, cmd.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StepApprovalResponse{}, stepapprovalerrors.ErrMappingNotFound
		}
		return StepApprovalResponse{}, err
	}

	approval, created, err := s.findOrInitApproval(ctx, qtx, cmd)
	if err != nil {
		return StepApprovalResponse{}, err
	}

	if !TransitionAllowed(approval.Status, cmd.Status) {
		s.logger.Warn("step status transition rejected",
			zap.String("period_id", cmd.PeriodID),
			zap.String("employee_id", cmd.EmployeeID),
			zap.String("step", cmd.Step),
			zap.String("from", approval.Status),
			zap.String("to", cmd.Status),
		)
		return StepApprovalResponse{}, stepapprovalerrors.ErrTransitionNotAllowed
	}

	now := time.Now().UTC()
	applyStatus(approval, cmd.Status, cmd.RevisionComment, cmd.UpdatedBy, now)

	if created {
		err = qtx.Create(ctx, approval)
	} else {
		err = qtx.Update(ctx, approval)
	}
	if err != nil {
		s.logger.Error("change step status persist failed",
			zap.String("step", cmd.Step), zap.Error(err))
		return StepApprovalResponse{}, err
	}

	var cascaded []string
	if cmd.Status == StatusApproved && cmd.ApproveSubsequentSteps {
		cascaded, err = s.cascadeApprove(ctx, qtx, cmd, now)
		if err != nil {
			s.logger.Error("forward cascade failed",
				zap.String("step", cmd.Step), zap.Error(err))
			return StepApprovalResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return StepApprovalResponse{}, err
	}

	s.recorder.Record(ctx, cmd.UpdatedBy, "CHANGE_STEP_STATUS", "step_approval", approval.ID.String(),
		cmd.Step+":"+cmd.Status)
	s.logger.Info("step status changed",
		zap.String("period_id", cmd.PeriodID),
		zap.String("employee_id", cmd.EmployeeID),
		zap.String("step", cmd.Step),
		zap.String("status", cmd.Status),
		zap.Strings("cascaded_steps", cascaded),
	)

	resp := mapToApprovalResponse(approval)
	resp.CascadedSteps = cascaded
	return resp, nil
}

func validateCommand(cmd *ChangeStepStatusCommand) error {
	if _, err := uuid.Parse(cmd.PeriodID); err != nil {
		return stepapprovalerrors.ErrMappingNotFound
	}
	if _, err := uuid.Parse(cmd.EmployeeID); err != nil {
		return stepapprovalerrors.ErrMappingNotFound
	}
	if !ValidStep(cmd.Step) {
		return stepapprovalerrors.ErrInvalidStep
	}
	if !ValidStatus(cmd.Status) || cmd.Status == StatusPending {
		return stepapprovalerrors.ErrInvalidStatus
	}

	if cmd.Step == StepSecondary {
		if cmd.EvaluatorID == nil {
			return stepapprovalerrors.ErrEvaluatorRequired
		}
		if _, err := uuid.Parse(*cmd.EvaluatorID); err != nil {
			return stepapprovalerrors.ErrEvaluatorRequired
		}
	} else {
		// The single mapping is the implicit key for every other step.
		cmd.EvaluatorID = nil
	}

	if cmd.Status == StatusRevisionRequested {
		if cmd.RevisionComment == nil || strings.TrimSpace(*cmd.RevisionComment) == "" {
			return stepapprovalerrors.ErrRevisionCommentRequired
		}
	}
	return nil
}

// findOrInitApproval loads the keyed row or initializes a PENDING one, so a
// first-ever status change is validated against PENDING like any other.
func (s *service) findOrInitApproval(ctx context.Context, qtx Repository, cmd ChangeStepStatusCommand) (*EvaluationStepApproval, bool, error) {
	approval, err := qtx.FindByKey(ctx, cmd.PeriodID, cmd.EmployeeID, cmd.Step, cmd.EvaluatorID)
	if err == nil {
		return approval, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	fresh := &EvaluationStepApproval{
		ID:         uuid.New(),
		PeriodID:   uuid.MustParse(cmd.PeriodID),
		EmployeeID: uuid.MustParse(cmd.EmployeeID),
		Step:       cmd.Step,
		Status:     StatusPending,
	}
	if cmd.EvaluatorID != nil {
		evID := uuid.MustParse(*cmd.EvaluatorID)
		fresh.EvaluatorID = &evID
	}
	return fresh, true, nil
}

func applyStatus(approval *EvaluationStepApproval, status string, comment *string, updatedBy string, now time.Time) {
	approval.Status = status
	switch status {
	case StatusApproved:
		approval.ApprovedBy = &updatedBy
		approval.ApprovedAt = &now
	case StatusRevisionRequested:
		approval.RevisionComment = comment
		rid := uuid.New()
		approval.RevisionRequestID = &rid
		approval.ApprovedBy = nil
		approval.ApprovedAt = nil
	}
}

// cascadeApprove marks every step after cmd.Step APPROVED. It is a side
// effect, not a transition: rows in any prior status are overwritten, rows
// that do not exist yet are created already approved. It never walks
// backward.
func (s *service) cascadeApprove(ctx context.Context, qtx Repository, cmd ChangeStepStatusCommand, now time.Time) ([]string, error) {
	var cascaded []string

	for _, step := range StepsAfter(cmd.Step) {
		if step == StepSecondary {
			if s.scope == CascadeNone {
				continue
			}
			touched, err := s.approveAllSecondary(ctx, qtx, cmd, now)
			if err != nil {
				return nil, err
			}
			if touched {
				cascaded = append(cascaded, step)
			}
			continue
		}

		approval, err := qtx.FindByKey(ctx, cmd.PeriodID, cmd.EmployeeID, step, nil)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fresh := &EvaluationStepApproval{
				ID:         uuid.New(),
				PeriodID:   uuid.MustParse(cmd.PeriodID),
				EmployeeID: uuid.MustParse(cmd.EmployeeID),
				Step:       step,
			}
			applyStatus(fresh, StatusApproved, nil, cmd.UpdatedBy, now)
			if err := qtx.Create(ctx, fresh); err != nil {
				return nil, err
			}
			cascaded = append(cascaded, step)
			continue
		}
		if err != nil {
			return nil, err
		}
		if approval.Status == StatusApproved {
			continue
		}

		applyStatus(approval, StatusApproved, nil, cmd.UpdatedBy, now)
		if err := qtx.Update(ctx, approval); err != nil {
			return nil, err
		}
		cascaded = append(cascaded, step)
	}

	return cascaded, nil
}

// approveAllSecondary approves every existing secondary evaluator row
// uniformly. Rows that were never created stay absent: the cascade does not
// invent evaluators.
func (s *service) approveAllSecondary(ctx context.Context, qtx Repository, cmd ChangeStepStatusCommand, now time.Time) (bool, error) {
	rows, err := qtx.FindByStep(ctx, cmd.PeriodID, cmd.EmployeeID, StepSecondary)
	if err != nil {
		return false, err
	}

	touched := false
	for i := range rows {
		if rows[i].Status == StatusApproved {
			continue
		}
		applyStatus(&rows[i], StatusApproved, nil, cmd.UpdatedBy, now)
		if err := qtx.Update(ctx, &rows[i]); err != nil {
			return false, err
		}
		touched = true
	}
	return touched, nil
}

func mapToApprovalResponse(a *EvaluationStepApproval) StepApprovalResponse {
	resp := StepApprovalResponse{
		ID:              a.ID.String(),
		PeriodID:        a.PeriodID.String(),
		EmployeeID:      a.EmployeeID.String(),
		Step:            a.Step,
		Status:          a.Status,
		RevisionComment: a.RevisionComment,
		ApprovedBy:      a.ApprovedBy,
		ApprovedAt:      a.ApprovedAt,
	}
	if a.EvaluatorID != nil {
		v := a.EvaluatorID.String()
		resp.EvaluatorID = &v
	}
	if a.RevisionRequestID != nil {
		v := a.RevisionRequestID.String()
		resp.RevisionRequestID = &v
	}
	return resp
}
