package router

import (
	"time"

	"fusevip/logger"

	"github.com/gin-gonic/gin"
)

// Logger logs method, path, status and latency.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		log := logger.Get().With(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
		)
		switch {
		case status >= 500:
			log.Error("request", "errors", c.Errors.String())
		case status >= 400:
			log.Warn("request")
		default:
			log.Info("request")
		}
	}
}
