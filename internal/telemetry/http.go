package telemetry

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs every HTTP request through slog.
func RequestLogger(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		l.InfoContext(c.Request.Context(), fmt.Sprintf("http: %s %s", c.Request.Method, c.FullPath()),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
