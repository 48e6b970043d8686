package middleware

import (
	"net/http"
	"sync"
	"time"

	"robot-notifier/pkg/errors"
	"robot-notifier/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const throttleIdle = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type throttle struct {
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
	visitors map[string]*visitor
	lastGC   time.Time
}

func (t *throttle) allow(ip string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if now.Sub(t.lastGC) > throttleIdle {
		for k, v := range t.visitors {
			if now.Sub(v.lastSeen) > throttleIdle {
				delete(t.visitors, k)
			}
		}
		t.lastGC = now
	}

	v, ok := t.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(t.rps, t.burst)}
		t.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Throttle limits each client IP to rps requests per second with the given
// burst. A non-positive rps disables it.
func (m Middleware) Throttle(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}

	t := &throttle{
		rps:      rate.Limit(rps),
		burst:    burst,
		visitors: make(map[string]*visitor),
		lastGC:   time.Now(),
	}
	tooMany := errors.NewHTTPError(http.StatusTooManyRequests, "Too many requests", http.StatusTooManyRequests)

	return func(c *gin.Context) {
		if !t.allow(c.ClientIP(), time.Now()) {
			m.logger.Warnf(c.Request.Context(), "internal.middleware.Throttle: %s over limit | Path: %s", c.ClientIP(), c.Request.URL.Path)
			response.Error(c, tooMany)
			c.Abort()
			return
		}
		c.Next()
	}
}
