package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orca-network/orca/pkg/logger"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

func CreateHealthHandler(checker HealthChecker, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		store := gin.H{"ready": true}
		status := statusHealthy
		code := http.StatusOK
		if checker != nil {
			if err := checker.HealthCheck(ctx); err != nil {
				logger.FromContext(ctx).Warn("Store health check failed", "error", err)
				store = gin.H{"ready": false, "error": err.Error()}
				status = statusUnhealthy
				code = http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{
			"status":  status,
			"version": version,
			"store":   store,
		})
	}
}
