package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aryasetia/doorguard/internal/services"
	"github.com/aryasetia/doorguard/pkg/response"
)

// MovementHandler exposes the sensor report endpoint and movement queries.
type MovementHandler struct {
	movements *services.MovementService
}

// NewMovementHandler constructs a movement handler.
func NewMovementHandler(movements *services.MovementService) *MovementHandler {
	return &MovementHandler{movements: movements}
}

type movementRequest struct {
	DoorID   string `json:"door_id" validate:"required"`
	SensorID string `json:"sensor_id" validate:"max=64"`
}

// LogMovement records a PIR sensor report. Like the swipe endpoint this
// returns the flat device contract; an alert raised here comes back with
// status 201.
func (h *MovementHandler) LogMovement(c *gin.Context) {
	var payload movementRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	outcome, err := h.movements.Report(requestContext(c), services.ReportMovementInput{
		DoorID:   payload.DoorID,
		SensorID: payload.SensorID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusOK
	if outcome.AlertCreated {
		status = http.StatusCreated
	}
	c.JSON(status, outcome)
}

// List returns motion events matching the query filters.
func (h *MovementHandler) List(c *gin.Context) {
	page, err := h.movements.List(requestContext(c), services.ListMovementsInput{
		DoorID:                 strings.TrimSpace(c.Query("door_id")),
		HasRecentAuthorization: parseBoolQuery(c, "has_recent_authorization"),
		StartDate:              parseDateQuery(c, "start_date", false),
		EndDate:                parseDateQuery(c, "end_date", true),
		Page:                   parseIntQuery(c, "page", 1),
		PerPage:                parseIntQuery(c, "per_page", 15),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, page.Movements, &response.Meta{
		Page:       page.Page,
		PerPage:    page.PerPage,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	})
}

// Statistics returns aggregate motion activity for a date range.
func (h *MovementHandler) Statistics(c *gin.Context) {
	stats, err := h.movements.Statistics(requestContext(c),
		parseDateQuery(c, "start_date", false),
		parseDateQuery(c, "end_date", true))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}
