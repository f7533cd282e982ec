package stepapproval

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
	l := zap.L().Named("stepapproval.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("stepapproval.handler")
	}
	return &Handler{service: service, logger: l}
}

// ChangeStepStatus returns a gin handler bound to one step. Static path
// segments per step keep the evaluator routes unambiguous.
func (h *Handler) ChangeStepStatus(step string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChangeStepStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
			return
		}

		cmd := ChangeStepStatusCommand{
			PeriodID:               c.Param("periodId"),
			EmployeeID:             c.Param("employeeId"),
			Step:                   step,
			Status:                 req.Status,
			RevisionComment:        req.RevisionComment,
			ApproveSubsequentSteps: req.ApproveSubsequentSteps,
			UpdatedBy:              c.GetString("employee_id"),
		}
		if step == StepSecondary {
			evaluatorID := c.Param("evaluatorId")
			cmd.EvaluatorID = &evaluatorID
		}

		approval, err := h.service.ChangeStepStatus(c.Request.Context(), cmd)
		if err != nil {
			he := apperror.ToHTTP(err)
			response.Error(c, he.Status, he.Code, he.Message, he.Details)
			return
		}

		response.Success(c, http.StatusOK, approval, nil)
	}
}
