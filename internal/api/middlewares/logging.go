package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maxaizer/jobmarket/internal/logger"
	"github.com/maxaizer/jobmarket/internal/metrics"
	log "github.com/sirupsen/logrus"
)

// RequestLogger logs every request and records its duration. Unmatched
// routes are reported under a single label.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HttpRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).
			Observe(elapsed.Seconds())

		entry := log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"route":    route,
			"status":   status,
			"duration": elapsed,
		})
		if status >= 500 {
			entry.WithField(logger.ErrorTypeField, logger.ErrorTypeHttp).Error(c.Errors.String())
		} else {
			entry.Debug("request handled")
		}
	}
}
