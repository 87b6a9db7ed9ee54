package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aryasetia/doorguard/pkg/logger"
)

// requestSurface classifies the caller: reader/sensor hardware presents the
// device token, dashboard users present a bearer token, everything else
// (health, metrics, sign-in) is public.
func requestSurface(c *gin.Context) string {
	switch {
	case c.GetHeader(DeviceTokenHeader) != "":
		return "device"
	case c.GetHeader("Authorization") != "":
		return "dashboard"
	default:
		return "public"
	}
}

// Logger writes one structured access-log line per request. Device traffic
// logs without a user id; dashboard requests pick up the id the auth
// middleware stored.
func Logger() gin.HandlerFunc {
	log := logger.WithModule("http")

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		surface := requestSurface(c)

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("surface", surface),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if userID := c.GetString(CtxUserIDKey); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		log.Info("request", fields...)
	}
}
