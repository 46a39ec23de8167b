package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/annel0/world-graph/internal/logging"
)

// RequestLogging логирует HTTP запросы с длительностью и статусом
func RequestLogging() gin.HandlerFunc {
	logger := logging.GetComponentLogger("api")

	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		status := c.Writer.Status()
		line := "%s %s -> %d (%v)"
		args := []interface{}{c.Request.Method, c.Request.URL.Path, status, time.Since(started)}

		switch {
		case status >= 500:
			logger.Error("❌ "+line, args...)
		case status >= 400:
			logger.Warn("⚠️ "+line, args...)
		default:
			logger.Debug("🪵 "+line, args...)
		}
	}
}
