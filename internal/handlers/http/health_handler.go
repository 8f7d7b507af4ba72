package http

import (
	"net/http"

	"roomcast/internal/infrastructure/monitoring"

	"github.com/gin-gonic/gin"
)

const databaseCheck = "database"

type HealthHandler struct {
	checker *monitoring.HealthChecker
	service string
	version string
}

func NewHealthHandler(checker *monitoring.HealthChecker, service, version string) *HealthHandler {
	return &HealthHandler{
		checker: checker,
		service: service,
		version: version,
	}
}

func (h *HealthHandler) SetupRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
}

func (h *HealthHandler) Health(c *gin.Context) {
	status := h.checker.CheckAll(c.Request.Context())

	database := "connected"
	if result, ok := status.Checks[databaseCheck]; ok && result != monitoring.StatusHealthy {
		database = "unreachable"
	}

	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":   status.Status,
		"database": database,
		"service":  h.service,
		"version":  h.version,
	})
}
