package http

import (
	"context"
	"time"

	"roomcast/internal/core/ports"
	"roomcast/internal/infrastructure/middleware"
	"roomcast/internal/infrastructure/monitoring"
	"roomcast/pkg/config"
	"roomcast/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterDeps carries everything the HTTP boundary needs. Metrics and
// MetricsGatherer are optional.
type RouterDeps struct {
	Config      *config.Config
	Logger      *zap.Logger
	AuthService ports.AuthService
	RoomService ports.RoomService

	// StoreCheck pings the record store for /health.
	StoreCheck func(ctx context.Context) error

	Metrics         *monitoring.PrometheusCollector
	MetricsGatherer prometheus.Gatherer
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	sugar := deps.Logger.Sugar()

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(sugar))
	router.Use(middleware.RequestIDMiddleware())
	if cfg.Tracing.Enabled {
		router.Use(middleware.TracingMiddleware())
	}
	contextLogger := logger.NewContextLogger(deps.Logger)
	router.Use(middleware.RequestLoggerMiddleware(contextLogger))
	if deps.Metrics != nil {
		router.Use(middleware.MetricsMiddleware(deps.Metrics))
	}
	router.Use(middleware.ErrorHandlerMiddleware(contextLogger))
	router.Use(middleware.NewHTTPRateLimitMiddleware(cfg))

	requireAuth := middleware.AuthMiddleware(deps.AuthService)

	NewAuthHandler(deps.AuthService).SetupRoutes(router, requireAuth)
	NewRoomHandler(deps.RoomService).SetupRoutes(router, requireAuth)

	checker := monitoring.NewHealthChecker()
	if deps.StoreCheck != nil {
		checker.AddCheck(databaseCheck, deps.StoreCheck, healthTimeout(cfg))
	}
	NewHealthHandler(checker, cfg.Service.Name, cfg.Service.Version).SetupRoutes(router)

	if cfg.Monitoring.PrometheusEnabled && deps.MetricsGatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{})))
	}

	return router
}

func healthTimeout(cfg *config.Config) time.Duration {
	if cfg.Monitoring.HealthTimeout > 0 {
		return cfg.Monitoring.HealthTimeout
	}
	return 2 * time.Second
}
