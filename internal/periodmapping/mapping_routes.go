package periodmapping

import (
	"go-peval/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes keeps the legacy admin paths so existing scheduler and
// back-office integrations do not break.
func RegisterRoutes(r *gin.Engine, handler *Handler) {
	admin := r.Group("/admin/performance-evaluation")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware("admin", "hr"))
	{
		admin.PATCH("/evaluation-editable-status/:mappingId", handler.SetEditable)
		admin.PATCH("/evaluation-editable-status/period/:periodId/all", handler.SetEditableForPeriod)
		admin.PATCH("/evaluation-exclusions/:mappingId", handler.Exclude)
	}
}
