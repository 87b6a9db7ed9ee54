package api

import (
	"github.com/gin-gonic/gin"

	"github.com/aryasetia/doorguard/internal/handlers"
)

func registerRealtimeRoutes(api *gin.RouterGroup, deps Deps) {
	realtimeHandler := handlers.NewRealtimeHandler(deps.Hub)
	api.GET("/realtime", realtimeHandler.Serve)
}
