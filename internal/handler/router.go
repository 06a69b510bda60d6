package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/hiredeck/scheduling-api/internal/middleware"
	"github.com/hiredeck/scheduling-api/internal/service"
	"github.com/hiredeck/scheduling-api/pkg/config"
	"github.com/hiredeck/scheduling-api/pkg/logger"
	corsmiddleware "github.com/hiredeck/scheduling-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hiredeck/scheduling-api/pkg/middleware/requestid"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Availability *AvailabilityHandler
	Match        *MatchHandler
	Scheduling   *SchedulingHandler
	Feedback     *FeedbackHandler
	Billing      *BillingHandler
	Metrics      *MetricsHandler

	MetricsService *service.MetricsService
}

// NewRouter assembles the gin engine with the full middleware chain and all
// API routes mounted under the configured prefix.
func NewRouter(cfg *config.Config, logr *zap.Logger, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Actor())
	r.Use(middleware.Metrics(h.MetricsService))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/availability", h.Availability.Create)
		api.GET("/availability", h.Availability.List)
		api.GET("/availability/search", h.Match.Search)

		api.POST("/scheduling/requests", h.Scheduling.Initiate)
		api.POST("/scheduling/confirmations/:token", h.Scheduling.Resolve)

		api.GET("/interviews/:id/feedback", h.Feedback.Get)
		api.PATCH("/interviews/:id/feedback", h.Feedback.Submit)

		api.GET("/billing/records", h.Billing.ListRecords)
	}

	return r
}
