package http

import (
	"robot-notifier/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the robot routes under r.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, mw middleware.Middleware) {
	robots := r.Group("/robots", mw.Auth())
	{
		robots.GET("/stats", h.Stats)
		robots.POST("/:channel/text", h.Text)
		robots.POST("/:channel/markdown", h.Markdown)
		robots.POST("/:channel/notice", h.Notice)
		robots.POST("/:channel/submit", h.Submit)
	}
}
