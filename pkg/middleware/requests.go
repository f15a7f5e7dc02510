package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/archidiocese/priestdb/pkg/metrics"
)

// RequestCounter records one priestdb_http_requests_total increment per
// request, labelled with the matched route template (not the raw path, to keep
// cardinality bounded).
func RequestCounter() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
