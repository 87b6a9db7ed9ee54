package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aryasetia/doorguard/internal/services"
	"github.com/aryasetia/doorguard/pkg/response"
)

// DoorHandler exposes door management and status history endpoints.
type DoorHandler struct {
	doors       *services.DoorService
	permissions *services.PermissionService
}

// NewDoorHandler constructs a door handler.
func NewDoorHandler(db *gorm.DB) (*DoorHandler, error) {
	doors, err := services.NewDoorService(db)
	if err != nil {
		return nil, err
	}
	permissions, err := services.NewPermissionService(db)
	if err != nil {
		return nil, err
	}
	return &DoorHandler{doors: doors, permissions: permissions}, nil
}

type createDoorRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Location    string `json:"location" validate:"max=255"`
	Description string `json:"description" validate:"max=1000"`
	IsActive    *bool  `json:"is_active"`
}

// Create registers a new door.
func (h *DoorHandler) Create(c *gin.Context) {
	var payload createDoorRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	door, err := h.doors.Create(requestContext(c), services.CreateDoorInput{
		Name:        payload.Name,
		Location:    payload.Location,
		Description: payload.Description,
		IsActive:    payload.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, door)
}

// List returns all doors.
func (h *DoorHandler) List(c *gin.Context) {
	doors, err := h.doors.List(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, doors)
}

// Get returns a single door.
func (h *DoorHandler) Get(c *gin.Context) {
	door, err := h.doors.Get(requestContext(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, door)
}

type updateDoorRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	IsActive    *bool   `json:"is_active"`
}

// Update mutates a door's attributes.
func (h *DoorHandler) Update(c *gin.Context) {
	var payload updateDoorRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	door, err := h.doors.Update(requestContext(c), strings.TrimSpace(c.Param("id")), services.UpdateDoorInput{
		Name:        payload.Name,
		Location:    payload.Location,
		Description: payload.Description,
		IsActive:    payload.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, door)
}

func (h *DoorHandler) Delete(c *gin.Context) {
	if err := h.doors.Delete(requestContext(c), strings.TrimSpace(c.Param("id"))); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

type changeDoorStatusRequest struct {
	Status       string `json:"status" validate:"required,oneof=open closed locked unlocked error"`
	ChangeMethod string `json:"change_method" validate:"omitempty,oneof=automatic manual scheduled emergency"`
}

// ChangeStatus appends a row to the door's status history.
func (h *DoorHandler) ChangeStatus(c *gin.Context) {
	var payload changeDoorStatusRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	status, err := h.doors.ChangeStatus(requestContext(c), strings.TrimSpace(c.Param("id")), services.ChangeDoorStatusInput{
		Status:       payload.Status,
		ChangeMethod: payload.ChangeMethod,
		ChangedBy:    currentUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, status)
}

// History returns the door's status history, newest first.
func (h *DoorHandler) History(c *gin.Context) {
	history, err := h.doors.History(requestContext(c), strings.TrimSpace(c.Param("id")), parseIntQuery(c, "limit", 100))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, history)
}

// CurrentStatuses returns every door paired with its latest status row.
func (h *DoorHandler) CurrentStatuses(c *gin.Context) {
	statuses, err := h.doors.CurrentStatuses(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, statuses)
}

// Users returns the permissions granting access to the door.
func (h *DoorHandler) Users(c *gin.Context) {
	permissions, err := h.permissions.DoorUsers(requestContext(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, permissions)
}
