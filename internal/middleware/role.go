package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/aryasetia/doorguard/pkg/errors"
	"github.com/aryasetia/doorguard/pkg/response"
)

// RequireRole checks that the authenticated user carries the given role. The
// role claim is set by Auth; this is a flat capability check, not inheritance.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxUserRoleKey)
		if !ok {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		if current, _ := v.(string); current != role {
			response.Error(c, errors.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}
