package api

import (
	"github.com/gin-gonic/gin"

	"github.com/aryasetia/doorguard/internal/handlers"
	"github.com/aryasetia/doorguard/internal/middleware"
)

// registerDeviceRoutes mounts the endpoints called by door readers and PIR
// sensors. Devices carry no user session; they authenticate with the shared
// device token header.
func registerDeviceRoutes(r *gin.Engine, deps Deps) error {
	accessHandler, err := handlers.NewAccessLogHandler(deps.DB)
	if err != nil {
		return err
	}
	movementHandler := handlers.NewMovementHandler(deps.Movements)

	devices := r.Group("/api")
	devices.Use(middleware.DeviceAuth(deps.Config.Device.Token))
	{
		devices.POST("/access_logs", accessHandler.LogAccess)
		devices.POST("/movement", movementHandler.LogMovement)
	}

	return nil
}
