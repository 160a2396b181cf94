package handlers

import (
	"net/http"

	"healthwatch-backend/services"

	"github.com/gin-gonic/gin"
)

type StatusHandler struct {
	limiter   *services.RateLimitService
	aiService *services.AIService
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(limiter *services.RateLimitService, aiService *services.AIService) *StatusHandler {
	return &StatusHandler{
		limiter:   limiter,
		aiService: aiService,
	}
}

// GetRateLimitStatus returns the current rate limiter state
// GET /api/v1/status/ratelimit
func (h *StatusHandler) GetRateLimitStatus(c *gin.Context) {
	status := h.limiter.GetStatus()
	c.JSON(http.StatusOK, gin.H{
		"rate_limit":    status,
		"ai_configured": h.aiService.IsConfigured(),
	})
}

// ResetRateLimit clears all rate limiter counters and cooldown state.
// Administrative escape hatch.
// POST /api/v1/status/ratelimit/reset
func (h *StatusHandler) ResetRateLimit(c *gin.Context) {
	h.limiter.Reset()
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

// HealthCheck is a simple health check endpoint
// GET /api/v1/health
func (h *StatusHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "healthwatch-backend",
		"version": "1.0.0",
	})
}
