package router

import (
	"go.uber.org/zap"
	"github.com/mealflow/backend/internal/infrastructure/logger"
	"github.com/mealflow/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Setup builds the gin engine with the common middleware chain and mounts
// every registrar under /api/v1
func Setup(environment string, log *zap.Logger, registrars ...RouteRegistrar) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	api := engine.Group("/api/v1")
	for _, registrar := range registrars {
		registrar.RegisterRoutes(api)
	}

	return engine
}
