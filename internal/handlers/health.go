package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apperrors "github.com/aryasetia/doorguard/pkg/errors"
	"github.com/aryasetia/doorguard/pkg/response"
)

// Health returns a status payload useful for readiness checks. The database
// is pinged on every call so a wedged store flips the endpoint unhealthy.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(requestContext(c))
			}
			if err != nil {
				response.Error(c, apperrors.Wrap(err, "database unavailable"))
				return
			}
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
