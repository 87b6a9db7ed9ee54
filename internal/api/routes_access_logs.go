package api

import (
	"github.com/gin-gonic/gin"

	"github.com/aryasetia/doorguard/internal/handlers"
)

func registerAccessLogRoutes(api *gin.RouterGroup, deps Deps) error {
	accessHandler, err := handlers.NewAccessLogHandler(deps.DB)
	if err != nil {
		return err
	}

	logs := api.Group("/access_logs")
	{
		logs.GET("", accessHandler.List)
		logs.GET("/statistics", accessHandler.Statistics)
	}

	return nil
}
