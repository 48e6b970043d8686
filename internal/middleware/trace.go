package middleware

import (
	"robot-notifier/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID   = "X-Request-ID"
	ContextKeyTraceID = "trace_id"
	ContextKeySubject = "subject"
)

// Trace tags each request with a trace id, taken from X-Request-ID when the
// caller sends one, and echoes it back.
func (m Middleware) Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(HeaderRequestID)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Set(ContextKeyTraceID, traceID)
		c.Header(HeaderRequestID, traceID)
		c.Request = c.Request.WithContext(log.WithTraceID(c.Request.Context(), traceID))

		c.Next()
	}
}
