package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aryasetia/doorguard/internal/services"
	"github.com/aryasetia/doorguard/pkg/response"
)

// AccessLogHandler exposes the swipe decision endpoint for readers and the
// ledger query endpoints for the dashboard.
type AccessLogHandler struct {
	access *services.AccessService
}

// NewAccessLogHandler constructs an access log handler.
func NewAccessLogHandler(db *gorm.DB) (*AccessLogHandler, error) {
	access, err := services.NewAccessService(db)
	if err != nil {
		return nil, err
	}
	return &AccessLogHandler{access: access}, nil
}

type swipeRequest struct {
	CardNumber string `json:"card_number" validate:"required,max=64"`
	DoorID     string `json:"door_id" validate:"required"`
}

// LogAccess runs the swipe decision for a card reader. The response body is
// the flat contract the device firmware parses, not the dashboard envelope.
func (h *AccessLogHandler) LogAccess(c *gin.Context) {
	var payload swipeRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	result, err := h.access.VerifySwipe(requestContext(c), services.VerifySwipeInput{
		CardNumber: payload.CardNumber,
		DoorID:     payload.DoorID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// List returns ledger rows matching the query filters. Non-admin callers
// only see their own rows.
func (h *AccessLogHandler) List(c *gin.Context) {
	page, err := h.access.List(requestContext(c), services.ListAccessLogsInput{
		UserID:       strings.TrimSpace(c.Query("user_id")),
		DoorID:       strings.TrimSpace(c.Query("door_id")),
		RfidCardID:   strings.TrimSpace(c.Query("rfid_card_id")),
		AccessType:   strings.TrimSpace(c.Query("access_type")),
		Status:       strings.TrimSpace(c.Query("status")),
		StartDate:    parseDateQuery(c, "start_date", false),
		EndDate:      parseDateQuery(c, "end_date", true),
		Page:         parseIntQuery(c, "page", 1),
		PerPage:      parseIntQuery(c, "per_page", 15),
		ActorID:      currentUserID(c),
		ActorIsAdmin: currentUserIsAdmin(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, page.Logs, &response.Meta{
		Page:       page.Page,
		PerPage:    page.PerPage,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	})
}

// Statistics returns granted-swipe counts bucketed by interval.
func (h *AccessLogHandler) Statistics(c *gin.Context) {
	points, err := h.access.Statistics(requestContext(c), strings.TrimSpace(c.Query("interval")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, points)
}
