package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aryasetia/doorguard/internal/services"
	"github.com/aryasetia/doorguard/pkg/response"
)

// UserHandler exposes user account management endpoints.
type UserHandler struct {
	users       *services.UserService
	permissions *services.PermissionService
}

// NewUserHandler constructs a user handler.
func NewUserHandler(db *gorm.DB) (*UserHandler, error) {
	users, err := services.NewUserService(db)
	if err != nil {
		return nil, err
	}
	permissions, err := services.NewPermissionService(db)
	if err != nil {
		return nil, err
	}
	return &UserHandler{users: users, permissions: permissions}, nil
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

// Create registers a new user account.
func (h *UserHandler) Create(c *gin.Context) {
	var payload createUserRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	user, err := h.users.Create(requestContext(c), services.CreateUserInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		Role:     payload.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, user)
}

// List returns users matching the query filters.
func (h *UserHandler) List(c *gin.Context) {
	page, err := h.users.List(requestContext(c), services.ListUsersInput{
		Role:     strings.TrimSpace(c.Query("role")),
		IsActive: parseBoolQuery(c, "is_active"),
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     parseIntQuery(c, "page", 1),
		PerPage:  parseIntQuery(c, "per_page", 15),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, page.Users, &response.Meta{
		Page:       page.Page,
		PerPage:    page.PerPage,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	})
}

// Get returns a single user.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(requestContext(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

type updateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin user"`
}

// Update mutates a user account.
func (h *UserHandler) Update(c *gin.Context) {
	var payload updateUserRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	user, err := h.users.Update(requestContext(c), strings.TrimSpace(c.Param("id")), services.UpdateUserInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		Role:     payload.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

// Activate re-enables a deactivated account.
func (h *UserHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate disables the account. Deactivated users fail swipe decisions
// and dashboard sign-in.
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *UserHandler) setActive(c *gin.Context, active bool) {
	user, err := h.users.SetActive(requestContext(c), strings.TrimSpace(c.Param("id")), active)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// Delete soft deletes a user account.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(requestContext(c), strings.TrimSpace(c.Param("id"))); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Doors returns the door permissions held by the user.
func (h *UserHandler) Doors(c *gin.Context) {
	permissions, err := h.permissions.UserDoors(requestContext(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, permissions)
}
