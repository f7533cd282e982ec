package evaluationperiod

import (
	"go-peval/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RegisterCronRoutes mounts the scheduler trigger outside the /api/v1 tree.
// It is unauthenticated but rate limited, matching how the platform scheduler
// calls it.
func RegisterCronRoutes(r *gin.Engine, handler *Handler) {
	cron := r.Group("/cron")
	cron.Use(middleware.RateLimitByIP(rate.Limit(1), 3))
	{
		cron.GET("/evaluation-period-auto-phase", handler.AutoPhaseTransition)
	}
}

func RegisterRoutes(api *gin.RouterGroup, handler *Handler) {
	periods := api.Group("/evaluation-periods")
	periods.Use(middleware.AuthMiddleware())
	{
		periods.GET("", handler.GetAll)
		periods.GET("/:periodId", handler.GetByID)
	}

	admin := api.Group("/admin/evaluation-periods")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware("admin", "hr"))
	{
		admin.PATCH("/:periodId/deadlines", handler.SetDeadlines)
	}
}
