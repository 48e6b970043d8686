package http

import (
	"strings"

	"github.com/gin-gonic/gin"
)

type validator interface {
	validate() error
}

// processRequest binds the JSON body into req and validates it.
func processRequest[T validator](h *Handler, c *gin.Context, req *T) (string, error) {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Warnf(c.Request.Context(), "internal.robot.delivery.http.processRequest: bind: %v", err)
		return "", h.mapError(err)
	}
	if err := (*req).validate(); err != nil {
		return "", h.mapError(err)
	}
	return strings.TrimSpace(c.Param("channel")), nil
}
