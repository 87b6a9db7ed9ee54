package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aryasetia/doorguard/pkg/errors"
	"github.com/aryasetia/doorguard/pkg/response"
)

// DeviceTokenHeader carries the shared secret presented by reader and sensor
// hardware. Devices are anonymous callers; no user identity is attached.
const DeviceTokenHeader = "X-Device-Token"

// DeviceAuth authenticates hardware endpoints with a static shared token.
// An empty configured token disables the device endpoints entirely.
func DeviceAuth(token string) gin.HandlerFunc {
	token = strings.TrimSpace(token)

	return func(c *gin.Context) {
		if token == "" {
			response.Error(c, errors.ErrForbidden)
			c.Abort()
			return
		}

		presented := strings.TrimSpace(c.GetHeader(DeviceTokenHeader))
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Next()
	}
}
