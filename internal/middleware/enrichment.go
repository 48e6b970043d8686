package middleware

import (
	"encoding/json"
	"strings"

	"robot-notifier/internal/robot"
	"robot-notifier/pkg/log"

	"github.com/gin-gonic/gin"
)

// RequestEnrichment describes the request being served for notice and
// exception formatting.
func RequestEnrichment(c *gin.Context) robot.Enrichment {
	headers := make(map[string]string, len(c.Request.Header))
	for k, v := range c.Request.Header {
		headers[strings.ToLower(k)] = strings.Join(v, "; ")
	}

	params := "{}"
	if q := c.Request.URL.Query(); len(q) > 0 {
		if b, err := json.Marshal(q); err == nil {
			params = string(b)
		}
	}

	return robot.Enrichment{
		TraceID: log.TraceID(c.Request.Context()),
		Request: &robot.RequestMeta{
			Method:   c.Request.Method,
			URL:      c.Request.URL.String(),
			ClientIP: c.ClientIP(),
			Params:   params,
			Headers:  headers,
		},
	}
}
