package api

import (
	"github.com/gin-gonic/gin"

	"github.com/aryasetia/doorguard/internal/handlers"
	"github.com/aryasetia/doorguard/internal/middleware"
)

func registerAuthRoutes(r *gin.Engine, deps Deps) error {
	authHandler, err := handlers.NewAuthHandler(deps.DB, deps.JWT)
	if err != nil {
		return err
	}

	auth := r.Group("/api/auth")
	{
		auth.POST("/signin", authHandler.SignIn)
	}

	authed := r.Group("/api/auth")
	authed.Use(middleware.Auth(deps.JWT))
	{
		authed.POST("/signout", authHandler.SignOut)
		authed.GET("/me", authHandler.Me)
	}

	return nil
}
