package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/aryasetia/doorguard/internal/app"
	iauth "github.com/aryasetia/doorguard/internal/auth"
	"github.com/aryasetia/doorguard/internal/handlers"
	"github.com/aryasetia/doorguard/internal/middleware"
	"github.com/aryasetia/doorguard/internal/realtime"
	"github.com/aryasetia/doorguard/internal/services"
)

// Deps bundles the shared components the router wires into handlers.
type Deps struct {
	DB        *gorm.DB
	JWT       *iauth.JWTService
	Config    *app.Config
	Hub       *realtime.Hub
	Movements *services.MovementService
}

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(deps Deps) (*gin.Engine, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if deps.JWT == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if deps.Config == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if deps.Movements == nil {
		return nil, fmt.Errorf("movement service must be provided")
	}

	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	// Basic rate limiting: 100 requests/minute per IP+path.
	r.Use(middleware.RateLimit(100, time.Minute))

	r.GET("/health", handlers.Health(deps.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if err := registerAuthRoutes(r, deps); err != nil {
		return nil, err
	}
	if err := registerDeviceRoutes(r, deps); err != nil {
		return nil, err
	}

	api := r.Group("/api")
	api.Use(middleware.Auth(deps.JWT))

	if err := registerUserRoutes(api, deps); err != nil {
		return nil, err
	}
	if err := registerDoorRoutes(api, deps); err != nil {
		return nil, err
	}
	if err := registerCardRoutes(api, deps); err != nil {
		return nil, err
	}
	if err := registerPermissionRoutes(api, deps); err != nil {
		return nil, err
	}
	if err := registerAccessLogRoutes(api, deps); err != nil {
		return nil, err
	}
	if err := registerMovementRoutes(api, deps); err != nil {
		return nil, err
	}
	if err := registerAlertRoutes(api, deps); err != nil {
		return nil, err
	}
	registerRealtimeRoutes(api, deps)

	return r, nil
}
