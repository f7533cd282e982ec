package evaluationperiod

import (
	"net/http"

	"go-peval/internal/shared/apperror"
	"go-peval/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("evaluationperiod.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("evaluationperiod.handler")
	}
	return &Handler{service: service, logger: l}
}

// AutoPhaseTransition is the scheduler-facing trigger. Its response shape is
// flat on purpose, see AutoTransitionResponse.
func (h *Handler) AutoPhaseTransition(c *gin.Context) {
	count, err := h.service.AutoPhaseTransition(c.Request.Context())
	if err != nil {
		h.logger.Error("auto phase transition trigger failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, AutoTransitionResponse{
			Success: false,
			Message: "auto phase transition failed",
		})
		return
	}

	c.JSON(http.StatusOK, AutoTransitionResponse{
		Success:           true,
		Message:           "auto phase transition completed",
		TransitionedCount: count,
	})
}

func (h *Handler) GetAll(c *gin.Context) {
	periods, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, he.Details)
		return
	}

	response.Success(c, http.StatusOK, periods, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	period, err := h.service.GetByID(c.Request.Context(), c.Param("periodId"))
	if err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, he.Details)
		return
	}

	response.Success(c, http.StatusOK, period, nil)
}

func (h *Handler) SetDeadlines(c *gin.Context) {
	var req SetDeadlinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	actorID := c.GetString("employee_id")
	period, err := h.service.SetDeadlines(c.Request.Context(), c.Param("periodId"), actorID, req)
	if err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, he.Details)
		return
	}

	response.Success(c, http.StatusOK, period, nil)
}
