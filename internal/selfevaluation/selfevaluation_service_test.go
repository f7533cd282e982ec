package selfevaluation

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"go-peval/internal/evaluationperiod"
	"go-peval/internal/periodmapping"
	selfevaluationerrors "go-peval/internal/selfevaluation/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeEvalRepo struct {
	evaluations  map[string]*WbsSelfEvaluation
	order        []string
	counts       CompletionCounts
	countCalls   int
	conflictNext int
}

func newFakeEvalRepo() *fakeEvalRepo {
	return &fakeEvalRepo{evaluations: map[string]*WbsSelfEvaluation{}}
}

func (f *fakeEvalRepo) add(e *WbsSelfEvaluation) {
	f.evaluations[e.ID.String()] = e
	f.order = append(f.order, e.ID.String())
}

func (f *fakeEvalRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeEvalRepo) FindByID(ctx context.Context, id string) (*WbsSelfEvaluation, error) {
	if e, ok := f.evaluations[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEvalRepo) FindByEmployeeAndPeriod(ctx context.Context, periodID, employeeID string) ([]WbsSelfEvaluation, error) {
	var out []WbsSelfEvaluation
	for _, id := range f.order {
		e := f.evaluations[id]
		if e.PeriodID.String() == periodID && e.EmployeeID.String() == employeeID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEvalRepo) FindByEmployeePeriodAndItems(ctx context.Context, periodID, employeeID string, itemIDs []string) ([]WbsSelfEvaluation, error) {
	wanted := map[string]bool{}
	for _, id := range itemIDs {
		wanted[id] = true
	}
	var out []WbsSelfEvaluation
	for _, id := range f.order {
		e := f.evaluations[id]
		if e.PeriodID.String() == periodID && e.EmployeeID.String() == employeeID && wanted[e.WbsItemID.String()] {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEvalRepo) Update(ctx context.Context, e *WbsSelfEvaluation) (bool, error) {
	if f.conflictNext > 0 {
		f.conflictNext--
		return false, nil
	}
	stored, ok := f.evaluations[e.ID.String()]
	if !ok || stored.LockVersion != e.LockVersion {
		return false, nil
	}
	copied := *e
	copied.LockVersion++
	f.evaluations[e.ID.String()] = &copied
	return true, nil
}

func (f *fakeEvalRepo) CountCompletion(ctx context.Context, periodID, employeeID string) (CompletionCounts, error) {
	f.countCalls++
	return f.counts, nil
}

type stubPeriodRepo struct {
	maxRate int
	found   bool
}

func (s *stubPeriodRepo) WithTx(tx *sql.Tx) evaluationperiod.Repository { return s }

func (s *stubPeriodRepo) FindAll(ctx context.Context) ([]evaluationperiod.EvaluationPeriod, error) {
	return nil, nil
}

func (s *stubPeriodRepo) FindAllInProgress(ctx context.Context) ([]evaluationperiod.EvaluationPeriod, error) {
	return nil, nil
}

func (s *stubPeriodRepo) FindByID(ctx context.Context, id string) (*evaluationperiod.EvaluationPeriod, error) {
	if !s.found {
		return nil, gorm.ErrRecordNotFound
	}
	return &evaluationperiod.EvaluationPeriod{MaxSelfEvaluationRate: s.maxRate}, nil
}

func (s *stubPeriodRepo) AdvancePhase(ctx context.Context, p *evaluationperiod.EvaluationPeriod, toPhase string, now time.Time) (bool, error) {
	return false, nil
}

func (s *stubPeriodRepo) UpdateDeadlines(ctx context.Context, p *evaluationperiod.EvaluationPeriod) (bool, error) {
	return false, nil
}

type stubMappingRepo struct {
	mapping *periodmapping.EvaluationPeriodEmployeeMapping
}

func (s *stubMappingRepo) WithTx(tx *sql.Tx) periodmapping.Repository { return s }

func (s *stubMappingRepo) Create(ctx context.Context, m *periodmapping.EvaluationPeriodEmployeeMapping) error {
	return nil
}

func (s *stubMappingRepo) FindByID(ctx context.Context, id string) (*periodmapping.EvaluationPeriodEmployeeMapping, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubMappingRepo) FindByPeriodAndEmployee(ctx context.Context, periodID, employeeID string) (*periodmapping.EvaluationPeriodEmployeeMapping, error) {
	if s.mapping == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.mapping, nil
}

func (s *stubMappingRepo) UpdateColumns(ctx context.Context, id string, updates map[string]any) (bool, error) {
	return false, nil
}

func (s *stubMappingRepo) UpdateEditableForPeriod(ctx context.Context, periodID string, a, b, c bool, u string) (int64, error) {
	return 0, nil
}

type stubWbsRepo struct {
	itemIDs []string
}

func (s *stubWbsRepo) FindAssignedItemIDs(ctx context.Context, periodID, employeeID, projectID string) ([]string, error) {
	return s.itemIDs, nil
}

type evalFixture struct {
	svc      Service
	repo     *fakeEvalRepo
	sqlMock  sqlmock.Sqlmock
	periodID uuid.UUID
	empID    uuid.UUID
}

func newEvalFixture(t *testing.T, maxRate int) *evalFixture {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := newFakeEvalRepo()
	svc := NewService(
		db,
		repo,
		&stubPeriodRepo{maxRate: maxRate, found: true},
		&stubMappingRepo{mapping: &periodmapping.EvaluationPeriodEmployeeMapping{IsSelfEvaluationEditable: true}},
		&stubWbsRepo{},
		nil,
		nil,
		zap.NewNop(),
	)

	return &evalFixture{
		svc:      svc,
		repo:     repo,
		sqlMock:  sqlMock,
		periodID: uuid.New(),
		empID:    uuid.New(),
	}
}

func (f *evalFixture) newEvaluation(content string, score *float64) *WbsSelfEvaluation {
	e := &WbsSelfEvaluation{
		ID:         uuid.New(),
		PeriodID:   f.periodID,
		EmployeeID: f.empID,
		WbsItemID:  uuid.New(),
		Score:      score,
	}
	if content != "" {
		e.Content = &content
	}
	f.repo.add(e)
	return e
}

func floatPtr(v float64) *float64 { return &v }

func TestSubmitToEvaluator_SetsTimestampOnce(t *testing.T) {
	f := newEvalFixture(t, 100)
	e := f.newEvaluation("delivered module on time", floatPtr(80))

	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectCommit()
	first, err := f.svc.SubmitToEvaluator(context.Background(), e.ID.String(), f.empID.String())
	assert.NoError(t, err)
	assert.NotNil(t, first.SubmittedToEvaluatorAt)

	// Second call is a no-op: same timestamp, no error.
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectCommit()
	second, err := f.svc.SubmitToEvaluator(context.Background(), e.ID.String(), f.empID.String())
	assert.NoError(t, err)
	assert.Equal(t, *first.SubmittedToEvaluatorAt, *second.SubmittedToEvaluatorAt)
}

func TestSubmitToEvaluator_RequiresContentAndScore(t *testing.T) {
	f := newEvalFixture(t, 100)

	noContent := f.newEvaluation("", floatPtr(50))
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()
	_, err := f.svc.SubmitToEvaluator(context.Background(), noContent.ID.String(), f.empID.String())
	assert.ErrorIs(t, err, selfevaluationerrors.ErrContentRequired)

	noScore := f.newEvaluation("some work", nil)
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()
	_, err = f.svc.SubmitToEvaluator(context.Background(), noScore.ID.String(), f.empID.String())
	assert.ErrorIs(t, err, selfevaluationerrors.ErrScoreRequired)
}

func TestSubmitToEvaluator_ScoreBoundaries(t *testing.T) {
	f := newEvalFixture(t, 100)

	cases := []struct {
		score   float64
		wantErr error
	}{
		{0, nil},
		{100, nil},
		{101, selfevaluationerrors.ErrScoreOutOfRange},
		{-1, selfevaluationerrors.ErrScoreOutOfRange},
	}
	for _, tc := range cases {
		e := f.newEvaluation("work item", floatPtr(tc.score))
		f.sqlMock.ExpectBegin()
		if tc.wantErr == nil {
			f.sqlMock.ExpectCommit()
		} else {
			f.sqlMock.ExpectRollback()
		}

		_, err := f.svc.SubmitToEvaluator(context.Background(), e.ID.String(), f.empID.String())
		if tc.wantErr == nil {
			assert.NoError(t, err, "score %v", tc.score)
		} else {
			assert.ErrorIs(t, err, tc.wantErr, "score %v", tc.score)
		}
	}
}

func TestSubmitToEvaluator_ConcurrentChangeConflicts(t *testing.T) {
	f := newEvalFixture(t, 100)
	e := f.newEvaluation("racy work", floatPtr(40))

	// Another request changes the row between this one's read and write.
	f.repo.conflictNext = 1

	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()
	_, err := f.svc.SubmitToEvaluator(context.Background(), e.ID.String(), f.empID.String())

	assert.ErrorIs(t, err, selfevaluationerrors.ErrVersionConflict)
	assert.Nil(t, f.repo.evaluations[e.ID.String()].SubmittedToEvaluatorAt)
}

func TestSubmitToManager_TwoStageOrdering(t *testing.T) {
	f := newEvalFixture(t, 100)
	e := f.newEvaluation("finished integration", floatPtr(90))

	// Manager stage before evaluator stage fails.
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()
	_, err := f.svc.SubmitToManager(context.Background(), e.ID.String(), f.empID.String())
	assert.ErrorIs(t, err, selfevaluationerrors.ErrEvaluatorStageRequired)

	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectCommit()
	_, err = f.svc.SubmitToEvaluator(context.Background(), e.ID.String(), f.empID.String())
	assert.NoError(t, err)

	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectCommit()
	resp, err := f.svc.SubmitToManager(context.Background(), e.ID.String(), f.empID.String())
	assert.NoError(t, err)
	assert.True(t, resp.IsCompleted)
	assert.NotNil(t, resp.CompletedAt)
	assert.NotNil(t, resp.SubmittedToManagerAt)

	// The single-item manager endpoint is one-shot.
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()
	_, err = f.svc.SubmitToManager(context.Background(), e.ID.String(), f.empID.String())
	assert.ErrorIs(t, err, selfevaluationerrors.ErrAlreadyCompleted)
}

func TestSubmitAllForApproval_PartialFailure(t *testing.T) {
	f := newEvalFixture(t, 100)

	var ids []string
	for i := 0; i < 5; i++ {
		content := "item work"
		if i == 2 {
			content = "" // item 3 has no content
		}
		e := f.newEvaluation(content, floatPtr(70))
		ids = append(ids, e.ID.String())
	}

	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectCommit()
	result, err := f.svc.SubmitAllForApproval(context.Background(), f.periodID.String(), f.empID.String(), f.empID.String())

	assert.NoError(t, err)
	assert.Equal(t, 4, result.SubmittedCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Equal(t, 5, result.TotalCount)
	assert.Len(t, result.FailedEvaluations, 1)
	assert.Equal(t, ids[2], result.FailedEvaluations[0].ID)
	assert.NotEmpty(t, result.FailedEvaluations[0].Reason)

	// The four good items were persisted with both stages set.
	for i, id := range ids {
		stored := f.repo.evaluations[id]
		if i == 2 {
			assert.False(t, stored.IsCompleted)
			assert.Nil(t, stored.SubmittedToEvaluatorAt)
			continue
		}
		assert.True(t, stored.IsCompleted, "item %d", i)
		assert.NotNil(t, stored.SubmittedToEvaluatorAt, "item %d", i)
		assert.NotNil(t, stored.SubmittedToManagerAt, "item %d", i)
	}
}

func TestSubmitAllForApproval_AlreadyCompletedItemsAreSuccesses(t *testing.T) {
	f := newEvalFixture(t, 100)

	done := f.newEvaluation("earlier work", floatPtr(60))
	ts := time.Now().UTC().Add(-time.Hour)
	done.SubmittedToEvaluatorAt = &ts
	done.SubmittedToManagerAt = &ts
	done.IsCompleted = true
	done.CompletedAt = &ts

	fresh := f.newEvaluation("new work", floatPtr(70))

	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectCommit()
	result, err := f.svc.SubmitAllForApproval(context.Background(), f.periodID.String(), f.empID.String(), f.empID.String())

	assert.NoError(t, err)
	assert.Equal(t, 2, result.SubmittedCount)
	assert.Zero(t, result.FailedCount)
	assert.Contains(t, result.CompletedEvaluations, done.ID.String())
	assert.Contains(t, result.CompletedEvaluations, fresh.ID.String())

	// The completed item was not re-processed: its timestamps are untouched.
	assert.Equal(t, ts, *f.repo.evaluations[done.ID.String()].SubmittedToManagerAt)
}

func TestSubmitAllToEvaluator_EmptyPeriodSucceeds(t *testing.T) {
	f := newEvalFixture(t, 100)

	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectCommit()
	result, err := f.svc.SubmitAllToEvaluator(context.Background(), f.periodID.String(), f.empID.String(), f.empID.String())

	assert.NoError(t, err)
	assert.Zero(t, result.TotalCount)
	assert.Zero(t, result.SubmittedCount)
	assert.Zero(t, result.FailedCount)
}

func TestSubmitByProject_NoAssignments(t *testing.T) {
	f := newEvalFixture(t, 100)

	_, err := f.svc.SubmitByProject(context.Background(), f.periodID.String(), f.empID.String(), uuid.NewString(), f.empID.String())

	assert.ErrorIs(t, err, selfevaluationerrors.ErrNoAssignments)
}

func TestUpdateContent_GatedByEditableFlag(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := newFakeEvalRepo()
	locked := &stubMappingRepo{mapping: &periodmapping.EvaluationPeriodEmployeeMapping{IsSelfEvaluationEditable: false}}
	svc := NewService(db, repo, &stubPeriodRepo{maxRate: 100, found: true}, locked, &stubWbsRepo{}, nil, nil, zap.NewNop())

	empID := uuid.New()
	e := &WbsSelfEvaluation{ID: uuid.New(), PeriodID: uuid.New(), EmployeeID: empID, WbsItemID: uuid.New()}
	repo.add(e)

	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()
	content := "updated narrative"
	_, err = svc.UpdateContent(context.Background(), e.ID.String(), empID.String(), UpdateContentRequest{Content: &content})

	assert.ErrorIs(t, err, selfevaluationerrors.ErrNotEditable)
}

func TestUpdateContent_RejectsForeignEvaluation(t *testing.T) {
	f := newEvalFixture(t, 100)
	e := f.newEvaluation("mine", floatPtr(10))

	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()
	content := "hijack"
	_, err := f.svc.UpdateContent(context.Background(), e.ID.String(), uuid.NewString(), UpdateContentRequest{Content: &content})

	assert.ErrorIs(t, err, selfevaluationerrors.ErrNotOwner)
}

func TestCompletionSummary_CacheMissThenHit(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	_ = sqlMock

	cache, cacheMock := redismock.NewClientMock()

	repo := newFakeEvalRepo()
	repo.counts = CompletionCounts{Total: 4, SubmittedToEvaluator: 3, Completed: 2}

	svc := NewService(db, repo, &stubPeriodRepo{maxRate: 100, found: true}, &stubMappingRepo{}, &stubWbsRepo{}, cache, nil, zap.NewNop())

	periodID := uuid.NewString()
	employeeID := uuid.NewString()
	key := summaryCacheKey(periodID, employeeID)

	expected := CompletionSummaryResponse{
		PeriodID:             periodID,
		EmployeeID:           employeeID,
		Total:                4,
		SubmittedToEvaluator: 3,
		Completed:            2,
		CompletionRate:       0.5,
	}
	payload, err := json.Marshal(expected)
	assert.NoError(t, err)

	// Miss: query runs and the result is cached.
	cacheMock.ExpectGet(key).RedisNil()
	cacheMock.ExpectSet(key, payload, summaryCacheTTL).SetVal("OK")

	got, err := svc.CompletionSummary(context.Background(), periodID, employeeID)
	assert.NoError(t, err)
	assert.Equal(t, expected, got)
	assert.Equal(t, 1, repo.countCalls)

	// Hit: served from the cache without touching the store.
	cacheMock.ExpectGet(key).SetVal(string(payload))

	got, err = svc.CompletionSummary(context.Background(), periodID, employeeID)
	assert.NoError(t, err)
	assert.Equal(t, expected, got)
	assert.Equal(t, 1, repo.countCalls)

	assert.NoError(t, cacheMock.ExpectationsWereMet())
}
