package middleware

import (
	"strconv"

	"github.com/crudapp/crudapp/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// RequestMetrics counts requests by method, route pattern and status.
// The route pattern (/edit/:id) keeps label cardinality bounded; unmatched
// paths are grouped under "unmatched". /metrics itself is not counted.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
