package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aryasetia/doorguard/internal/services"
	apperrors "github.com/aryasetia/doorguard/pkg/errors"
	"github.com/aryasetia/doorguard/pkg/response"
)

// AlertHandler exposes alert query and acknowledgment endpoints.
type AlertHandler struct {
	alerts *services.AlertService
}

// NewAlertHandler constructs an alert handler.
func NewAlertHandler(db *gorm.DB) (*AlertHandler, error) {
	alerts, err := services.NewAlertService(db)
	if err != nil {
		return nil, err
	}
	return &AlertHandler{alerts: alerts}, nil
}

// List returns alerts matching the query filters.
func (h *AlertHandler) List(c *gin.Context) {
	page, err := h.alerts.List(requestContext(c), services.ListAlertsInput{
		DoorID:         strings.TrimSpace(c.Query("door_id")),
		AlertType:      strings.TrimSpace(c.Query("alert_type")),
		IsAcknowledged: parseBoolQuery(c, "is_acknowledged"),
		StartDate:      parseDateQuery(c, "start_date", false),
		EndDate:        parseDateQuery(c, "end_date", true),
		Page:           parseIntQuery(c, "page", 1),
		PerPage:        parseIntQuery(c, "per_page", 15),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, page.Alerts, &response.Meta{
		Page:       page.Page,
		PerPage:    page.PerPage,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	})
}

// Unacknowledged returns every open alert.
func (h *AlertHandler) Unacknowledged(c *gin.Context) {
	alerts, err := h.alerts.Unacknowledged(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, alerts)
}

// Get returns a single alert.
func (h *AlertHandler) Get(c *gin.Context) {
	alert, err := h.alerts.Get(requestContext(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, alert)
}

// Acknowledge marks the alert as handled by the caller. A second attempt on
// the same alert fails with 422.
func (h *AlertHandler) Acknowledge(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	alert, err := h.alerts.Acknowledge(requestContext(c), strings.TrimSpace(c.Param("id")), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Alert acknowledged.",
		"alert":   alert,
	})
}
