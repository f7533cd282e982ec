package evaluationperiod

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	perioderrors "go-peval/internal/evaluationperiod/errors"
	"go-peval/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakePeriodRepo struct {
	periods      []EvaluationPeriod
	findByIDFn   func(id string) (*EvaluationPeriod, error)
	advanceOK    map[string]bool
	advanceErr   map[string]error
	advanceCalls []string
	updateOK     bool
	updateErr    error
}

func (f *fakePeriodRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakePeriodRepo) FindAll(ctx context.Context) ([]EvaluationPeriod, error) {
	return f.periods, nil
}

func (f *fakePeriodRepo) FindAllInProgress(ctx context.Context) ([]EvaluationPeriod, error) {
	return f.periods, nil
}

func (f *fakePeriodRepo) FindByID(ctx context.Context, id string) (*EvaluationPeriod, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePeriodRepo) AdvancePhase(ctx context.Context, p *EvaluationPeriod, toPhase string, now time.Time) (bool, error) {
	id := p.ID.String()
	f.advanceCalls = append(f.advanceCalls, id)
	if err := f.advanceErr[id]; err != nil {
		return false, err
	}
	if f.advanceOK == nil {
		return true, nil
	}
	return f.advanceOK[id], nil
}

func (f *fakePeriodRepo) UpdateDeadlines(ctx context.Context, p *EvaluationPeriod) (bool, error) {
	return f.updateOK, f.updateErr
}

type fakeOutboxRepo struct {
	created []kafka.OutboxEvent
	err     error
}

func (f *fakeOutboxRepo) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepo) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string) error              { return nil }
func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id string, r string) error  { return nil }

func runningPeriod(phase string, deadline time.Time) EvaluationPeriod {
	d := deadline
	p := EvaluationPeriod{
		ID:           uuid.New(),
		Name:         "FY2026 H1",
		StartDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:       StatusInProgress,
		CurrentPhase: phase,
	}
	switch phase {
	case PhaseEvaluationSetup:
		p.EvaluationSetupDeadline = &d
	case PhasePerformance:
		p.PerformanceDeadline = &d
	case PhaseSelfEvaluation:
		p.SelfEvaluationDeadline = &d
	case PhasePeerEvaluation:
		p.PeerEvaluationDeadline = &d
	}
	return p
}

func TestAutoPhaseTransition_AdvancesLapsedPeriodsOnly(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	lapsed := runningPeriod(PhaseEvaluationSetup, past)
	pending := runningPeriod(PhasePerformance, future)

	repo := &fakePeriodRepo{periods: []EvaluationPeriod{lapsed, pending}}
	outbox := &fakeOutboxRepo{}
	svc := NewServiceWithOutbox(db, repo, outbox, nil, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectCommit()

	count, err := svc.AutoPhaseTransition(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{lapsed.ID.String()}, repo.advanceCalls)
	assert.Len(t, outbox.created, 1)
	assert.Equal(t, "evaluation_period", outbox.created[0].AggregateType)
	assert.Equal(t, lapsed.ID.String(), outbox.created[0].AggregateID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAutoPhaseTransition_SkipsAlreadyAdvancedPeriod(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	lapsed := runningPeriod(PhaseEvaluationSetup, time.Now().UTC().Add(-time.Hour))
	repo := &fakePeriodRepo{
		periods:   []EvaluationPeriod{lapsed},
		advanceOK: map[string]bool{lapsed.ID.String(): false},
	}
	svc := NewServiceWithOutbox(db, repo, &fakeOutboxRepo{}, nil, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectCommit()

	count, err := svc.AutoPhaseTransition(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, count, "a conditional write matching zero rows is not a transition")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAutoPhaseTransition_OneFailingPeriodDoesNotBlockOthers(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	past := time.Now().UTC().Add(-time.Hour)
	bad := runningPeriod(PhaseEvaluationSetup, past)
	good := runningPeriod(PhaseSelfEvaluation, past)

	repo := &fakePeriodRepo{
		periods:    []EvaluationPeriod{bad, good},
		advanceErr: map[string]error{bad.ID.String(): errors.New("write failed")},
	}
	svc := NewServiceWithOutbox(db, repo, &fakeOutboxRepo{}, nil, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	count, err := svc.AutoPhaseTransition(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{bad.ID.String(), good.ID.String()}, repo.advanceCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAutoPhaseTransition_EmitsCompletedStatusOnClosure(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	lapsed := runningPeriod(PhasePeerEvaluation, time.Now().UTC().Add(-time.Hour))
	repo := &fakePeriodRepo{periods: []EvaluationPeriod{lapsed}}
	outbox := &fakeOutboxRepo{}
	svc := NewServiceWithOutbox(db, repo, outbox, nil, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectCommit()

	count, err := svc.AutoPhaseTransition(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, outbox.created, 1)
	assert.Contains(t, string(outbox.created[0].Payload), StatusCompleted)
	assert.Contains(t, string(outbox.created[0].Payload), PhaseClosure)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_InvalidUUID(t *testing.T) {
	svc := NewService(nil, &fakePeriodRepo{}, zap.NewNop())

	_, err := svc.GetByID(context.Background(), "not-a-uuid")

	assert.ErrorIs(t, err, perioderrors.ErrInvalidPeriodID)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := NewService(nil, &fakePeriodRepo{}, zap.NewNop())

	_, err := svc.GetByID(context.Background(), uuid.NewString())

	assert.ErrorIs(t, err, perioderrors.ErrPeriodNotFound)
}

func TestSetDeadlines_RejectsDecreasingOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	p := runningPeriod(PhaseEvaluationSetup, time.Now().UTC())
	repo := &fakePeriodRepo{
		findByIDFn: func(id string) (*EvaluationPeriod, error) { return &p, nil },
	}
	svc := NewService(db, repo, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectRollback()

	setup := "2026-04-01T00:00:00Z"
	performance := "2026-03-01T00:00:00Z"
	_, err = svc.SetDeadlines(context.Background(), p.ID.String(), "actor-1", SetDeadlinesRequest{
		EvaluationSetupDeadline: &setup,
		PerformanceDeadline:     &performance,
	})

	assert.ErrorIs(t, err, perioderrors.ErrDeadlineOrder)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetDeadlines_RejectsBadFormat(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	p := runningPeriod(PhaseEvaluationSetup, time.Now().UTC())
	repo := &fakePeriodRepo{
		findByIDFn: func(id string) (*EvaluationPeriod, error) { return &p, nil },
	}
	svc := NewService(db, repo, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectRollback()

	bad := "03/01/2026"
	_, err = svc.SetDeadlines(context.Background(), p.ID.String(), "actor-1", SetDeadlinesRequest{
		PerformanceDeadline: &bad,
	})

	assert.ErrorIs(t, err, perioderrors.ErrInvalidDeadlineFormat)
}

func TestSetDeadlines_VersionConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	p := runningPeriod(PhaseEvaluationSetup, time.Now().UTC())
	repo := &fakePeriodRepo{
		findByIDFn: func(id string) (*EvaluationPeriod, error) { return &p, nil },
		updateOK:   false,
	}
	svc := NewService(db, repo, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectRollback()

	performance := "2026-03-01T00:00:00Z"
	_, err = svc.SetDeadlines(context.Background(), p.ID.String(), "actor-1", SetDeadlinesRequest{
		PerformanceDeadline: &performance,
	})

	assert.ErrorIs(t, err, perioderrors.ErrVersionConflict)
}

func TestSetDeadlines_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	p := runningPeriod(PhaseEvaluationSetup, time.Now().UTC())
	repo := &fakePeriodRepo{
		findByIDFn: func(id string) (*EvaluationPeriod, error) { return &p, nil },
		updateOK:   true,
	}
	svc := NewService(db, repo, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectCommit()

	setup := "2026-02-01T00:00:00Z"
	performance := "2026-03-01T00:00:00Z"
	resp, err := svc.SetDeadlines(context.Background(), p.ID.String(), "actor-1", SetDeadlinesRequest{
		EvaluationSetupDeadline: &setup,
		PerformanceDeadline:     &performance,
	})

	assert.NoError(t, err)
	assert.NotNil(t, resp.EvaluationSetupDeadline)
	assert.Equal(t, "2026-03-01T00:00:00Z", *resp.PerformanceDeadline)
	assert.NoError(t, mock.ExpectationsWereMet())
}
