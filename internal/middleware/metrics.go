package middleware

import (
	"strconv"

	"github.com/SscSPs/ledger_transfer_engine/internal/platform/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request counts and latency per route template.
func HTTPMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		timer := prometheus.NewTimer(metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, endpoint))

		c.Next()

		timer.ObserveDuration()
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
