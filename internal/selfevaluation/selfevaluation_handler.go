package selfevaluation

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
	l := zap.L().Named("selfevaluation.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("selfevaluation.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) SubmitToEvaluator(c *gin.Context) {
	evaluation, err := h.service.SubmitToEvaluator(c.Request.Context(), c.Param("id"), c.GetString("employee_id"))
	if err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, he.Details)
		return
	}
	response.Success(c, http.StatusOK, evaluation, nil)
}

func (h *Handler) SubmitToManager(c *gin.Context) {
	evaluation, err := h.service.SubmitToManager(c.Request.Context(), c.Param("id"), c.GetString("employee_id"))
	if err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, he.Details)
		return
	}
	response.Success(c, http.StatusOK, evaluation, nil)
}

func (h *Handler) SubmitAllToEvaluator(c *gin.Context) {
	result, err := h.service.SubmitAllToEvaluator(
		c.Request.Context(),
		c.Param("periodId"),
		c.Param("employeeId"),
		c.GetString("employee_id"),
	)
	if err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, he.Details)
		return
	}
	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) SubmitAllForApproval(c *gin.Context) {
	result, err := h.service.SubmitAllForApproval(
		c.Request.Context(),
		c.Param("periodId"),
		c.Param("employeeId"),
		c.GetString("employee_id"),
	)
	if err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, he.Details)
		return
	}
	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) SubmitByProject(c *gin.Context) {
	result, err := h.service.SubmitByProject(
		c.Request.Context(),
		c.Param("periodId"),
		c.Param("employeeId"),
		c.Param("projectId"),
		c.GetString("employee_id"),
	)
	if err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, he.Details)
		return
	}
	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) UpdateContent(c *gin.Context) {
	var req UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	evaluation, err := h.service.UpdateContent(c.Request.Context(), c.Param("id"), c.GetString("employee_id"), req)
	if err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, he.Details)
		return
	}
	response.Success(c, http.StatusOK, evaluation, nil)
}

func (h *Handler) CompletionSummary(c *gin.Context) {
	summary, err := h.service.CompletionSummary(c.Request.Context(), c.Param("periodId"), c.Param("employeeId"))
	if err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, he.Details)
		return
	}
	response.Success(c, http.StatusOK, summary, nil)
}
