package api

import (
	"github.com/gin-gonic/gin"

	"github.com/aryasetia/doorguard/internal/handlers"
	"github.com/aryasetia/doorguard/internal/middleware"
	"github.com/aryasetia/doorguard/internal/models"
)

func registerCardRoutes(api *gin.RouterGroup, deps Deps) error {
	cardHandler, err := handlers.NewCardHandler(deps.DB)
	if err != nil {
		return err
	}

	cards := api.Group("/rfid_cards")
	{
		cards.GET("", cardHandler.List)
		cards.GET("/:id", cardHandler.Get)
	}

	adminCards := api.Group("/rfid_cards")
	adminCards.Use(middleware.RequireRole(models.RoleAdmin))
	{
		adminCards.POST("", cardHandler.Create)
		adminCards.PUT("/:id", cardHandler.Update)
		adminCards.DELETE("/:id", cardHandler.Delete)
	}

	return nil
}
