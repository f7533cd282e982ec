package selfevaluation

import (
	"go-peval/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(api *gin.RouterGroup, handler *Handler, idempotency gin.HandlerFunc) {
	single := api.Group("/wbs-self-evaluations")
	single.Use(middleware.AuthMiddleware())
	{
		single.PATCH("/:id/submit-to-evaluator", handler.SubmitToEvaluator)
		single.PATCH("/:id/submit", handler.SubmitToManager)
		single.PATCH("/:id/content", handler.UpdateContent)
	}

	scoped := api.Group("/evaluation-periods/:periodId/employees/:employeeId")
	scoped.Use(middleware.AuthMiddleware())
	{
		bulk := scoped.Group("/wbs-self-evaluations")
		if idempotency != nil {
			bulk.Use(idempotency)
		}
		bulk.PATCH("/submit-all-to-evaluator", handler.SubmitAllToEvaluator)
		bulk.PATCH("/submit-all", handler.SubmitAllForApproval)
		bulk.GET("/summary", handler.CompletionSummary)

		scoped.PATCH("/projects/:projectId/wbs-self-evaluations/submit", handler.SubmitByProject)
	}
}
