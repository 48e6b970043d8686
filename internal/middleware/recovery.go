package middleware

import (
	"robot-notifier/internal/robot"
	"robot-notifier/pkg/response"

	"github.com/friendsofgo/errors"
	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into a 500 and reports it to the trace channel.
func (m Middleware) Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			ctx := c.Request.Context()
			m.logger.Errorf(ctx, "internal.middleware.Recovery: panic recovered: %v | Method: %s | Path: %s",
				rec, c.Request.Method, c.Request.URL.Path)

			if m.robotUC != nil {
				var err error
				if e, ok := rec.(error); ok {
					err = errors.WithStack(e)
				} else {
					err = errors.Errorf("panic: %v", rec)
				}
				m.robotUC.Exception(ctx, robot.ExceptionInput{
					Channel:    m.traceChannel,
					Err:        err,
					Enrichment: RequestEnrichment(c),
				})
			}

			response.PanicError(c)
		}()
		c.Next()
	}
}
