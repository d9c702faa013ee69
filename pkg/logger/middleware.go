package logger

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key the request-id middleware stores its value under.
const RequestIDKey = "request_id"

// Middleware logs one line per request: method, route pattern, status, latency and request id.
// 5xx responses are logged at error level, 4xx at warn, everything else at info.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := c.Writer.Status()
		rid := c.GetString(RequestIDKey)
		latency := time.Since(start)

		switch {
		case status >= 500:
			Errorf("%s %s status=%d latency=%s request_id=%s", c.Request.Method, path, status, latency, rid)
		case status >= 400:
			Warnf("%s %s status=%d latency=%s request_id=%s", c.Request.Method, path, status, latency, rid)
		default:
			Infof("%s %s status=%d latency=%s request_id=%s", c.Request.Method, path, status, latency, rid)
		}
	}
}
