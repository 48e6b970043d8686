package middleware

import (
	"strings"

	"robot-notifier/pkg/response"

	"github.com/gin-gonic/gin"
)

// Auth returns a middleware that validates bearer tokens. It passes every
// request through when no JWT secret is configured.
func (m Middleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.jwtManager == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.logger.Warnf(ctx, "internal.middleware.Auth: missing Authorization header | Path: %s", c.Request.URL.Path)
			response.Unauthorized(c)
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			m.logger.Warnf(ctx, "internal.middleware.Auth: invalid Authorization header format | Path: %s", c.Request.URL.Path)
			response.Unauthorized(c)
			return
		}

		claims, err := m.jwtManager.Verify(strings.TrimSpace(authHeader[len(bearerPrefix):]))
		if err != nil {
			m.logger.Warnf(ctx, "internal.middleware.Auth: %v | Path: %s", err, c.Request.URL.Path)
			response.Unauthorized(c)
			return
		}

		c.Set(ContextKeySubject, claims.Subject)
		c.Next()
	}
}
