package evaluationperiod

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-peval/internal/activity"
	perioderrors "go-peval/internal/evaluationperiod/errors"
	"go-peval/internal/events"
	"go-peval/internal/messaging/kafka"
	"go-peval/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

//go:generate mockgen -source=period_service.go -destination=mock/period_service_mock.go -package=mock
type Service interface {
	AutoPhaseTransition(ctx context.Context) (int, error)
	GetAll(ctx context.Context) ([]PeriodResponse, error)
	GetByID(ctx context.Context, id string) (PeriodResponse, error)
	SetDeadlines(ctx context.Context, id, actorID string, req SetDeadlinesRequest) (PeriodResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	outbox   kafka.OutboxRepository
	recorder activity.Recorder
	sf       *singleflight.Group
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, activity.NopRecorder{}, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	recorder activity.Recorder,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("evaluationperiod.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("evaluationperiod.service")
	}
	if recorder == nil {
		recorder = activity.NopRecorder{}
	}
	return &service{
		db:       db,
		repo:     repo,
		outbox:   outboxRepo,
		recorder: recorder,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

// AutoPhaseTransition sweeps all running periods once. Concurrent trigger
// firings (cron endpoint plus worker ticker) collapse into a single sweep
// through singleflight; the conditional phase write bounds any remaining
// double-fire to at most one step per period.
func (s *service) AutoPhaseTransition(ctx context.Context) (int, error) {
	v, err, shared := s.sf.Do("auto-phase-transition", func() (interface{}, error) {
		return s.runPhaseSweep(ctx)
	})
	if err != nil {
		return 0, err
	}
	if shared {
		s.logger.Debug("auto phase transition shared with concurrent trigger")
	}
	return v.(int), nil
}

func (s *service) runPhaseSweep(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	s.logger.Debug("auto phase transition sweep started", zap.Time("now", now))

	periods, err := s.repo.FindAllInProgress(ctx)
	if err != nil {
		s.logger.Error("auto phase transition list periods failed", zap.Error(err))
		return 0, err
	}

	transitioned := 0
	for i := range periods {
		p := &periods[i]

		toPhase, ok := NextPhase(p, now)
		if !ok {
			continue
		}

		// Each period commits on its own: one failing period must not
		// block the rest of the sweep.
		advanced, err := s.transitionPeriod(ctx, p, toPhase, now)
		if err != nil {
			s.logger.Error("auto phase transition period failed",
				zap.String("period_id", p.ID.String()),
				zap.String("from_phase", p.CurrentPhase),
				zap.String("to_phase", toPhase),
				zap.Error(err),
			)
			continue
		}
		if !advanced {
			s.logger.Warn("auto phase transition skipped, period already advanced",
				zap.String("period_id", p.ID.String()),
				zap.String("from_phase", p.CurrentPhase),
			)
			continue
		}

		s.logger.Info("evaluation period phase advanced",
			zap.String("period_id", p.ID.String()),
			zap.String("from_phase", p.CurrentPhase),
			zap.String("to_phase", toPhase),
		)
		transitioned++
	}

	s.logger.Info("auto phase transition sweep finished",
		zap.Int("checked", len(periods)),
		zap.Int("transitioned", transitioned),
	)
	return transitioned, nil
}

func (s *service) transitionPeriod(ctx context.Context, p *EvaluationPeriod, toPhase string, now time.Time) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	advanced, err := qtx.AdvancePhase(ctx, p, toPhase, now)
	if err != nil {
		return false, err
	}
	if !advanced {
		return false, tx.Commit()
	}

	if s.outbox != nil {
		status := p.Status
		if toPhase == PhaseClosure {
			status = StatusCompleted
		}
		event := events.PeriodPhaseTransitionedEvent{
			EventType:  "evaluation_period_phase_transitioned",
			RequestID:  contextutil.GetRequestID(ctx),
			PeriodID:   p.ID.String(),
			FromPhase:  p.CurrentPhase,
			ToPhase:    toPhase,
			Status:     status,
			OccurredAt: now,
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return false, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     event.RequestID,
			AggregateType: "evaluation_period",
			AggregateID:   event.PeriodID,
			EventType:     event.EventType,
			Topic:         events.PeriodPhaseTransitionedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	s.recorder.Record(ctx, "system", "PHASE_TRANSITION", "evaluation_period", p.ID.String(),
		fmt.Sprintf("%s -> %s", p.CurrentPhase, toPhase))

	return true, nil
}

func (s *service) GetAll(ctx context.Context) ([]PeriodResponse, error) {
	periods, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all evaluation periods failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(periods), nil
}

func (s *service) GetByID(ctx context.Context, id string) (PeriodResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PeriodResponse{}, perioderrors.ErrInvalidPeriodID
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PeriodResponse{}, perioderrors.ErrPeriodNotFound
		}
		return PeriodResponse{}, err
	}
	return mapToResponse(*p), nil
}

func (s *service) SetDeadlines(ctx context.Context, id, actorID string, req SetDeadlinesRequest) (PeriodResponse, error) {
	s.logger.Debug("set period deadlines requested",
		zap.String("period_id", id),
		zap.String("actor_id", actorID),
	)

	if _, err := uuid.Parse(id); err != nil {
		return PeriodResponse{}, perioderrors.ErrInvalidPeriodID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("set period deadlines begin tx failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PeriodResponse{}, perioderrors.ErrPeriodNotFound
		}
		return PeriodResponse{}, err
	}

	setup, err := parseOptionalDeadline(req.EvaluationSetupDeadline, p.EvaluationSetupDeadline)
	if err != nil {
		return PeriodResponse{}, err
	}
	performance, err := parseOptionalDeadline(req.PerformanceDeadline, p.PerformanceDeadline)
	if err != nil {
		return PeriodResponse{}, err
	}
	selfEval, err := parseOptionalDeadline(req.SelfEvaluationDeadline, p.SelfEvaluationDeadline)
	if err != nil {
		return PeriodResponse{}, err
	}
	peerEval, err := parseOptionalDeadline(req.PeerEvaluationDeadline, p.PeerEvaluationDeadline)
	if err != nil {
		return PeriodResponse{}, err
	}

	if !deadlinesMonotonic(setup, performance, selfEval, peerEval) {
		s.logger.Warn("set period deadlines order invalid", zap.String("period_id", id))
		return PeriodResponse{}, perioderrors.ErrDeadlineOrder
	}

	p.EvaluationSetupDeadline = setup
	p.PerformanceDeadline = performance
	p.SelfEvaluationDeadline = selfEval
	p.PeerEvaluationDeadline = peerEval

	updated, err := qtx.UpdateDeadlines(ctx, p)
	if err != nil {
		s.logger.Error("set period deadlines persist failed", zap.String("period_id", id), zap.Error(err))
		return PeriodResponse{}, err
	}
	if !updated {
		return PeriodResponse{}, perioderrors.ErrVersionConflict
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("set period deadlines commit failed", zap.String("period_id", id), zap.Error(err))
		return PeriodResponse{}, err
	}

	s.recorder.Record(ctx, actorID, "SET_DEADLINES", "evaluation_period", id, "")
	s.logger.Info("set period deadlines success", zap.String("period_id", id))

	p.LockVersion++
	return mapToResponse(*p), nil
}

// deadlinesMonotonic checks that every pair of set deadlines respects the
// phase order; unset deadlines are skipped.
func deadlinesMonotonic(deadlines ...*time.Time) bool {
	var prev *time.Time
	for _, d := range deadlines {
		if d == nil {
			continue
		}
		if prev != nil && d.Before(*prev) {
			return false
		}
		prev = d
	}
	return true
}

func parseOptionalDeadline(v *string, current *time.Time) (*time.Time, error) {
	if v == nil {
		return current, nil
	}
	if *v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *v)
	if err != nil {
		return nil, perioderrors.ErrInvalidDeadlineFormat
	}
	utc := t.UTC()
	return &utc, nil
}

func mapToResponse(p EvaluationPeriod) PeriodResponse {
	resp := PeriodResponse{
		ID:                    p.ID.String(),
		Name:                  p.Name,
		StartDate:             p.StartDate.Format("2006-01-02"),
		Status:                p.Status,
		CurrentPhase:          p.CurrentPhase,
		MaxSelfEvaluationRate: p.MaxSelfEvaluationRate,
	}
	if p.EndDate != nil {
		v := p.EndDate.Format("2006-01-02")
		resp.EndDate = &v
	}
	resp.EvaluationSetupDeadline = formatOptionalTime(p.EvaluationSetupDeadline)
	resp.PerformanceDeadline = formatOptionalTime(p.PerformanceDeadline)
	resp.SelfEvaluationDeadline = formatOptionalTime(p.SelfEvaluationDeadline)
	resp.PeerEvaluationDeadline = formatOptionalTime(p.PeerEvaluationDeadline)
	resp.CompletedDate = formatOptionalTime(p.CompletedDate)

	for _, g := range p.GradeRanges {
		resp.GradeRanges = append(resp.GradeRanges, GradeRangeResponse{
			Grade:    g.Grade,
			MinRange: g.MinRange,
			MaxRange: g.MaxRange,
		})
	}
	return resp
}

func mapToListResponse(periods []EvaluationPeriod) []PeriodResponse {
	resp := make([]PeriodResponse, len(periods))
	for i, p := range periods {
		resp[i] = mapToResponse(p)
	}
	return resp
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}
