package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aryasetia/doorguard/internal/services"
	"github.com/aryasetia/doorguard/pkg/response"
)

// PermissionHandler exposes door permission management endpoints.
type PermissionHandler struct {
	permissions *services.PermissionService
}

// NewPermissionHandler constructs a permission handler.
func NewPermissionHandler(db *gorm.DB) (*PermissionHandler, error) {
	permissions, err := services.NewPermissionService(db)
	if err != nil {
		return nil, err
	}
	return &PermissionHandler{permissions: permissions}, nil
}

type createPermissionRequest struct {
	UserID          string `json:"user_id" validate:"required"`
	DoorID          string `json:"door_id" validate:"required"`
	AccessStartTime string `json:"access_start_time"`
	AccessEndTime   string `json:"access_end_time"`
	IsActive        *bool  `json:"is_active"`
}

// Create grants a user access to a door.
func (h *PermissionHandler) Create(c *gin.Context) {
	var payload createPermissionRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	permission, err := h.permissions.Create(requestContext(c), services.CreatePermissionInput{
		UserID:          payload.UserID,
		DoorID:          payload.DoorID,
		AccessStartTime: payload.AccessStartTime,
		AccessEndTime:   payload.AccessEndTime,
		IsActive:        payload.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, permission)
}

// List returns permissions matching the query filters.
func (h *PermissionHandler) List(c *gin.Context) {
	page, err := h.permissions.List(requestContext(c), services.ListPermissionsInput{
		UserID:   strings.TrimSpace(c.Query("user_id")),
		DoorID:   strings.TrimSpace(c.Query("door_id")),
		IsActive: parseBoolQuery(c, "is_active"),
		Page:     parseIntQuery(c, "page", 1),
		PerPage:  parseIntQuery(c, "per_page", 15),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, page.Permissions, &response.Meta{
		Page:       page.Page,
		PerPage:    page.PerPage,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	})
}

// Get returns a single permission.
func (h *PermissionHandler) Get(c *gin.Context) {
	permission, err := h.permissions.Get(requestContext(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, permission)
}

type updatePermissionRequest struct {
	AccessStartTime *string `json:"access_start_time"`
	AccessEndTime   *string `json:"access_end_time"`
	IsActive        *bool   `json:"is_active"`
}

// Update mutates a permission's window or active flag.
func (h *PermissionHandler) Update(c *gin.Context) {
	var payload updatePermissionRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	permission, err := h.permissions.Update(requestContext(c), strings.TrimSpace(c.Param("id")), services.UpdatePermissionInput{
		AccessStartTime: payload.AccessStartTime,
		AccessEndTime:   payload.AccessEndTime,
		IsActive:        payload.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, permission)
}

// Delete revokes a permission.
func (h *PermissionHandler) Delete(c *gin.Context) {
	if err := h.permissions.Delete(requestContext(c), strings.TrimSpace(c.Param("id"))); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
