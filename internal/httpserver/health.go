package httpserver

import (
	"robot-notifier/internal/frequency"
	"robot-notifier/pkg/errors"
	"robot-notifier/pkg/response"

	"github.com/gin-gonic/gin"
)

const serviceName = "robot-notifier"

// healthCheck handles health check requests
// @Summary Health Check
// @Description Reports the rate limiter backend and dispatcher counters. A
// @Description service that fell back to local rate limiting is "degraded".
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is healthy"
// @Router /health [get]
func (srv *HTTPServer) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	status := "healthy"
	mode := ""
	if srv.store != nil {
		mode = srv.store.Mode().String()
		if srv.store.Mode() == frequency.ModeLocal {
			status = "degraded"
		}
	}

	redisStatus := "disabled"
	if srv.redis != nil {
		redisStatus = "connected"
		if err := srv.redis.Ping(ctx); err != nil {
			srv.logger.Warnf(ctx, "internal.httpserver.healthCheck: redis ping: %v", err)
			redisStatus = "unreachable"
		}
	}

	response.OK(c, gin.H{
		"status":      status,
		"service":     serviceName,
		"environment": srv.environment,
		"store_mode":  mode,
		"redis":       redisStatus,
		"stats":       srv.robotUC.Stats(),
	})
}

// readyCheck handles readiness check requests
// @Summary Readiness Check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is ready"
// @Failure 503 {object} map[string]interface{} "Service is shutting down"
// @Router /ready [get]
func (srv *HTTPServer) readyCheck(c *gin.Context) {
	if srv.draining.Load() {
		response.Error(c, errors.NewServiceUnavailableHTTPError())
		return
	}

	response.OK(c, gin.H{
		"status":  "ready",
		"service": serviceName,
	})
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is alive"
// @Router /live [get]
func (srv *HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"service": serviceName,
	})
}
