package periodmapping

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
	l := zap.L().Named("periodmapping.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("periodmapping.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) SetEditable(c *gin.Context) {
	var req UpdateEditableStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		he := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, he.Status, he.Code, he.Message, he.Details)
		return
	}

	updatedBy := req.UpdatedBy
	if updatedBy == "" {
		updatedBy = c.GetString("employee_id")
	}

	mapping, err := h.service.SetEditable(
		c.Request.Context(),
		c.Param("mappingId"),
		c.Query("evaluationType"),
		*req.IsEditable,
		updatedBy,
	)
	if err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, he.Details)
		return
	}

	response.Success(c, http.StatusOK, mapping, nil)
}

func (h *Handler) SetEditableForPeriod(c *gin.Context) {
	var req BulkEditableStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		he := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, he.Status, he.Code, he.Message, he.Details)
		return
	}

	if req.UpdatedBy == "" {
		req.UpdatedBy = c.GetString("employee_id")
	}

	result, err := h.service.SetEditableForPeriod(c.Request.Context(), c.Param("periodId"), req)
	if err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, he.Details)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) Exclude(c *gin.Context) {
	var req ExcludeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	mapping, err := h.service.Exclude(
		c.Request.Context(),
		c.Param("mappingId"),
		req.Reason,
		c.GetString("employee_id"),
	)
	if err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, he.Details)
		return
	}

	response.Success(c, http.StatusOK, mapping, nil)
}
