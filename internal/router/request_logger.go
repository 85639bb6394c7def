package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"esgboard/internal/handlers"
	"esgboard/internal/models"
)

// RequestLogger logs every request with zap: 5xx at Error, 4xx at Warn and
// everything else at Debug.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if v, ok := c.Get(handlers.UserContextKey); ok {
			if u, ok := v.(*models.User); ok {
				fields = append(fields, zap.Uint("userID", u.ID))
			}
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.Error("Server error", fields...)
		case status >= 400:
			log.Warn("Client error", fields...)
		default:
			log.Debug("Request processed", fields...)
		}
	}
}
