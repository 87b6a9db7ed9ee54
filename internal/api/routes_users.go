package api

import (
	"github.com/gin-gonic/gin"

	"github.com/aryasetia/doorguard/internal/handlers"
	"github.com/aryasetia/doorguard/internal/middleware"
	"github.com/aryasetia/doorguard/internal/models"
)

func registerUserRoutes(api *gin.RouterGroup, deps Deps) error {
	userHandler, err := handlers.NewUserHandler(deps.DB)
	if err != nil {
		return err
	}

	users := api.Group("/users")
	users.Use(middleware.RequireRole(models.RoleAdmin))
	{
		users.GET("", userHandler.List)
		users.POST("", userHandler.Create)
		users.GET("/:id", userHandler.Get)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
		users.POST("/:id/activate", userHandler.Activate)
		users.POST("/:id/deactivate", userHandler.Deactivate)
		users.GET("/:id/doors", userHandler.Doors)
	}

	return nil
}
