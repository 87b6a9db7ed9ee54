package api

import (
	"github.com/gin-gonic/gin"

	"github.com/aryasetia/doorguard/internal/handlers"
)

func registerAlertRoutes(api *gin.RouterGroup, deps Deps) error {
	alertHandler, err := handlers.NewAlertHandler(deps.DB)
	if err != nil {
		return err
	}

	alerts := api.Group("/alerts")
	{
		alerts.GET("", alertHandler.List)
		alerts.GET("/unacknowledged", alertHandler.Unacknowledged)
		alerts.GET("/:id", alertHandler.Get)
		alerts.PUT("/:id/acknowledge", alertHandler.Acknowledge)
	}

	return nil
}
