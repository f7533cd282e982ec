package rbac

import (
	"go-peval/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, handler *Handler) {
	group := r.Group("/rbac")
	{
		group.POST("/enforce", handler.Enforce)
	}

	admin := r.Group("/rbac")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware("admin"))
	{
		admin.GET("/roles", handler.GetRoles)
		admin.GET("/roles/:id", handler.GetRole)
		admin.GET("/permissions", handler.GetPermissions)
		admin.PUT("/roles/:id/permissions", handler.PutRolePermissions)
	}
}
