package stepapproval

import (
	"go-peval/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(api *gin.RouterGroup, handler *Handler) {
	evaluator := api.Group("/evaluator/evaluation-periods/:periodId/employees/:employeeId/steps")
	evaluator.Use(middleware.AuthMiddleware())
	{
		evaluator.PATCH("/criteria", handler.ChangeStepStatus(StepCriteria))
		evaluator.PATCH("/self", handler.ChangeStepStatus(StepSelf))
		evaluator.PATCH("/primary", handler.ChangeStepStatus(StepPrimary))
		evaluator.PATCH("/secondary/:evaluatorId", handler.ChangeStepStatus(StepSecondary))
	}
}
