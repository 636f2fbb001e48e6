package middleware

import (
	"time"

	"agilemate/internal/logger"

	"github.com/gin-gonic/gin"
)

// AccessLog writes one structured line per request.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		l := logger.With("method", c.Request.Method, "route", routeOf(c))
		if id, ok := CurrentIdentity(c); ok {
			l = l.With("uid", id.ID)
		}
		l.Log(c.Request.Context(), logger.LevelForStatus(status), "http.request",
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}

func routeOf(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}
