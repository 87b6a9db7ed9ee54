package api

import (
	"github.com/gin-gonic/gin"

	"github.com/aryasetia/doorguard/internal/handlers"
	"github.com/aryasetia/doorguard/internal/middleware"
	"github.com/aryasetia/doorguard/internal/models"
)

func registerDoorRoutes(api *gin.RouterGroup, deps Deps) error {
	doorHandler, err := handlers.NewDoorHandler(deps.DB)
	if err != nil {
		return err
	}

	doors := api.Group("/doors")
	{
		doors.GET("", doorHandler.List)
		doors.GET("/:id", doorHandler.Get)
		doors.GET("/:id/history", doorHandler.History)
	}

	adminDoors := api.Group("/doors")
	adminDoors.Use(middleware.RequireRole(models.RoleAdmin))
	{
		adminDoors.POST("", doorHandler.Create)
		adminDoors.PUT("/:id", doorHandler.Update)
		adminDoors.DELETE("/:id", doorHandler.Delete)
		adminDoors.POST("/:id/status", doorHandler.ChangeStatus)
		adminDoors.GET("/:id/users", doorHandler.Users)
	}

	api.GET("/door_status", doorHandler.CurrentStatuses)

	return nil
}
