package evaluationperiod

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perioderrors "go-peval/internal/evaluationperiod/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakePeriodService struct {
	transitionCount int
	transitionErr   error
	getByIDResp    PeriodResponse
	getByIDErr     error
}

func (f *fakePeriodService) AutoPhaseTransition(ctx context.Context) (int, error) {
	return f.transitionCount, f.transitionErr
}

func (f *fakePeriodService) GetAll(ctx context.Context) ([]PeriodResponse, error) {
	return nil, nil
}

func (f *fakePeriodService) GetByID(ctx context.Context, id string) (PeriodResponse, error) {
	return f.getByIDResp, f.getByIDErr
}

func (f *fakePeriodService) SetDeadlines(ctx context.Context, id, actorID string, req SetDeadlinesRequest) (PeriodResponse, error) {
	return PeriodResponse{}, nil
}

func setupPeriodRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc, zap.NewNop())
	r.GET("/cron/evaluation-period-auto-phase", h.AutoPhaseTransition)
	r.GET("/api/v1/evaluation-periods/:periodId", h.GetByID)
	return r
}

func TestAutoPhaseTransitionHandler_FlatResponseShape(t *testing.T) {
	router := setupPeriodRouter(&fakePeriodService{transitionCount: 2})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cron/evaluation-period-auto-phase", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["transitionedCount"])
	assert.NotContains(t, body, "ok", "cron contract bypasses the api envelope")
}

func TestAutoPhaseTransitionHandler_Failure(t *testing.T) {
	router := setupPeriodRouter(&fakePeriodService{transitionErr: errors.New("db down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cron/evaluation-period-auto-phase", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
}

func TestGetByIDHandler_NotFoundEnvelope(t *testing.T) {
	router := setupPeriodRouter(&fakePeriodService{getByIDErr: perioderrors.ErrPeriodNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/evaluation-periods/7b0a7c3e-1111-2222-3333-444455556666", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["ok"])
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "NOT_FOUND", errObj["code"])
}
