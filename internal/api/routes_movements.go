package api

import (
	"github.com/gin-gonic/gin"

	"github.com/aryasetia/doorguard/internal/handlers"
)

func registerMovementRoutes(api *gin.RouterGroup, deps Deps) error {
	movementHandler := handlers.NewMovementHandler(deps.Movements)

	movements := api.Group("/movement_detections")
	{
		movements.GET("", movementHandler.List)
		movements.GET("/statistics", movementHandler.Statistics)
	}

	return nil
}
