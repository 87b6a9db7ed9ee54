package api

import (
	"github.com/gin-gonic/gin"

	"github.com/aryasetia/doorguard/internal/handlers"
	"github.com/aryasetia/doorguard/internal/middleware"
	"github.com/aryasetia/doorguard/internal/models"
)

func registerPermissionRoutes(api *gin.RouterGroup, deps Deps) error {
	permissionHandler, err := handlers.NewPermissionHandler(deps.DB)
	if err != nil {
		return err
	}

	permissions := api.Group("/permissions")
	permissions.Use(middleware.RequireRole(models.RoleAdmin))
	{
		permissions.GET("", permissionHandler.List)
		permissions.POST("", permissionHandler.Create)
		permissions.GET("/:id", permissionHandler.Get)
		permissions.PUT("/:id", permissionHandler.Update)
		permissions.DELETE("/:id", permissionHandler.Delete)
	}

	return nil
}
