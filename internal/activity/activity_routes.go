package activity

import (
	"go-peval/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, handler *Handler) {
	admin := r.Group("/admin/performance-evaluation/activity")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware("admin", "hr"))
	{
		admin.GET("/:resourceType/:resourceId", handler.GetByResource)
	}
}
