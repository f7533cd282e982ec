package periodmapping

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-peval/internal/evaluationperiod"
	perioderrors "go-peval/internal/evaluationperiod/errors"
	mappingerrors "go-peval/internal/periodmapping/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeMappingRepo struct {
	mapping       *EvaluationPeriodEmployeeMapping
	updateRows    bool
	lastUpdates   map[string]any
	bulkCount     int64
	bulkArgs      []any
}

func (f *fakeMappingRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeMappingRepo) Create(ctx context.Context, m *EvaluationPeriodEmployeeMapping) error {
	return nil
}

func (f *fakeMappingRepo) FindByID(ctx context.Context, id string) (*EvaluationPeriodEmployeeMapping, error) {
	if f.mapping == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.mapping, nil
}

func (f *fakeMappingRepo) FindByPeriodAndEmployee(ctx context.Context, periodID, employeeID string) (*EvaluationPeriodEmployeeMapping, error) {
	if f.mapping == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.mapping, nil
}

func (f *fakeMappingRepo) UpdateColumns(ctx context.Context, id string, updates map[string]any) (bool, error) {
	f.lastUpdates = updates
	return f.updateRows, nil
}

func (f *fakeMappingRepo) UpdateEditableForPeriod(ctx context.Context, periodID string, selfE, primaryE, secondaryE bool, updatedBy string) (int64, error) {
	f.bulkArgs = []any{periodID, selfE, primaryE, secondaryE, updatedBy}
	return f.bulkCount, nil
}

type fakePeriodLookup struct {
	found bool
}

func (f *fakePeriodLookup) WithTx(tx *sql.Tx) evaluationperiod.Repository { return f }

func (f *fakePeriodLookup) FindAll(ctx context.Context) ([]evaluationperiod.EvaluationPeriod, error) {
	return nil, nil
}

func (f *fakePeriodLookup) FindAllInProgress(ctx context.Context) ([]evaluationperiod.EvaluationPeriod, error) {
	return nil, nil
}

func (f *fakePeriodLookup) FindByID(ctx context.Context, id string) (*evaluationperiod.EvaluationPeriod, error) {
	if !f.found {
		return nil, gorm.ErrRecordNotFound
	}
	return &evaluationperiod.EvaluationPeriod{}, nil
}

func (f *fakePeriodLookup) AdvancePhase(ctx context.Context, p *evaluationperiod.EvaluationPeriod, toPhase string, now time.Time) (bool, error) {
	return false, nil
}

func (f *fakePeriodLookup) UpdateDeadlines(ctx context.Context, p *evaluationperiod.EvaluationPeriod) (bool, error) {
	return false, nil
}

func boolPtr(b bool) *bool { return &b }

func newMappingDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestSetEditable_UpdatesSingleFlag(t *testing.T) {
	db, mock := newMappingDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	m := &EvaluationPeriodEmployeeMapping{
		ID:                       uuid.New(),
		PeriodID:                 uuid.New(),
		EmployeeID:               uuid.New(),
		IsSelfEvaluationEditable: false,
	}
	repo := &fakeMappingRepo{mapping: m, updateRows: true}
	svc := NewService(db, repo, &fakePeriodLookup{found: true}, nil, zap.NewNop())

	resp, err := svc.SetEditable(context.Background(), m.ID.String(), "self", false, "admin-1")

	assert.NoError(t, err)
	assert.Equal(t, m.ID.String(), resp.ID)
	assert.Equal(t, map[string]any{
		"is_self_evaluation_editable": false,
		"updated_by":                  "admin-1",
	}, repo.lastUpdates)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetEditable_AllTogglesThreeFlags(t *testing.T) {
	db, mock := newMappingDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	m := &EvaluationPeriodEmployeeMapping{ID: uuid.New(), PeriodID: uuid.New(), EmployeeID: uuid.New()}
	repo := &fakeMappingRepo{mapping: m, updateRows: true}
	svc := NewService(db, repo, &fakePeriodLookup{found: true}, nil, zap.NewNop())

	_, err := svc.SetEditable(context.Background(), m.ID.String(), "ALL", true, "")

	assert.NoError(t, err)
	assert.Equal(t, map[string]any{
		"is_self_evaluation_editable":      true,
		"is_primary_evaluation_editable":   true,
		"is_secondary_evaluation_editable": true,
	}, repo.lastUpdates)
}

func TestSetEditable_InvalidType(t *testing.T) {
	svc := NewService(nil, &fakeMappingRepo{}, &fakePeriodLookup{}, nil, zap.NewNop())

	_, err := svc.SetEditable(context.Background(), uuid.NewString(), "peer", true, "")

	assert.ErrorIs(t, err, mappingerrors.ErrInvalidEvaluationType)
}

func TestSetEditable_UnknownMapping(t *testing.T) {
	db, mock := newMappingDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	repo := &fakeMappingRepo{updateRows: false}
	svc := NewService(db, repo, &fakePeriodLookup{}, nil, zap.NewNop())

	_, err := svc.SetEditable(context.Background(), uuid.NewString(), "primary", true, "")

	assert.ErrorIs(t, err, mappingerrors.ErrMappingNotFound)
}

func TestSetEditableForPeriod_ZeroMappingsSucceeds(t *testing.T) {
	db, mock := newMappingDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := &fakeMappingRepo{bulkCount: 0}
	svc := NewService(db, repo, &fakePeriodLookup{found: true}, nil, zap.NewNop())

	resp, err := svc.SetEditableForPeriod(context.Background(), uuid.NewString(), BulkEditableStatusRequest{
		IsSelfEvaluationEditable:      boolPtr(false),
		IsPrimaryEvaluationEditable:   boolPtr(false),
		IsSecondaryEvaluationEditable: boolPtr(true),
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(0), resp.UpdatedCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetEditableForPeriod_AppliesAllThreeFlags(t *testing.T) {
	db, mock := newMappingDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := &fakeMappingRepo{bulkCount: 7}
	svc := NewService(db, repo, &fakePeriodLookup{found: true}, nil, zap.NewNop())

	periodID := uuid.NewString()
	resp, err := svc.SetEditableForPeriod(context.Background(), periodID, BulkEditableStatusRequest{
		IsSelfEvaluationEditable:      boolPtr(false),
		IsPrimaryEvaluationEditable:   boolPtr(true),
		IsSecondaryEvaluationEditable: boolPtr(false),
		UpdatedBy:                     "admin-2",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), resp.UpdatedCount)
	assert.Equal(t, []any{periodID, false, true, false, "admin-2"}, repo.bulkArgs)
}

func TestSetEditableForPeriod_UnknownPeriod(t *testing.T) {
	db, mock := newMappingDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	svc := NewService(db, &fakeMappingRepo{}, &fakePeriodLookup{found: false}, nil, zap.NewNop())

	_, err := svc.SetEditableForPeriod(context.Background(), uuid.NewString(), BulkEditableStatusRequest{
		IsSelfEvaluationEditable:      boolPtr(true),
		IsPrimaryEvaluationEditable:   boolPtr(true),
		IsSecondaryEvaluationEditable: boolPtr(true),
	})

	assert.ErrorIs(t, err, perioderrors.ErrPeriodNotFound)
}

func TestExclude_SetsReasonActorTimestamp(t *testing.T) {
	db, mock := newMappingDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	m := &EvaluationPeriodEmployeeMapping{ID: uuid.New(), PeriodID: uuid.New(), EmployeeID: uuid.New()}
	repo := &fakeMappingRepo{mapping: m, updateRows: true}
	svc := NewService(db, repo, &fakePeriodLookup{found: true}, nil, zap.NewNop())

	_, err := svc.Exclude(context.Background(), m.ID.String(), "left the company", "hr-1")

	assert.NoError(t, err)
	assert.Equal(t, true, repo.lastUpdates["is_excluded"])
	assert.Equal(t, "left the company", repo.lastUpdates["exclusion_reason"])
	assert.Equal(t, "hr-1", repo.lastUpdates["excluded_by"])
	assert.NotNil(t, repo.lastUpdates["excluded_at"])
}

func TestExclude_RequiresReason(t *testing.T) {
	svc := NewService(nil, &fakeMappingRepo{}, &fakePeriodLookup{}, nil, zap.NewNop())

	_, err := svc.Exclude(context.Background(), uuid.NewString(), "   ", "hr-1")

	assert.ErrorIs(t, err, mappingerrors.ErrExclusionReasonRequired)
}
