package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/aryasetia/doorguard/internal/models"
	apperrors "github.com/aryasetia/doorguard/pkg/errors"
)

// CreatePermissionInput defines attributes for granting door access.
// Time bounds accept HH:MM or HH:MM:SS; empty means unbounded on that side.
type CreatePermissionInput struct {
	UserID          string
	DoorID          string
	AccessStartTime string
	AccessEndTime   string
	IsActive        *bool
}

// UpdatePermissionInput defines mutable permission attributes. Nil fields
// are left untouched; an explicit empty time string clears that bound.
type UpdatePermissionInput struct {
	AccessStartTime *string
	AccessEndTime   *string
	IsActive        *bool
}

// ListPermissionsInput defines filters for querying permissions.
type ListPermissionsInput struct {
	UserID   string
	DoorID   string
	IsActive *bool
	Page     int
	PerPage  int
}

// PermissionPage is one page of permissions plus pagination totals.
type PermissionPage struct {
	Permissions []models.UserPermission `json:"permissions"`
	Total       int64                   `json:"total"`
	Page        int                     `json:"page"`
	PerPage     int                     `json:"per_page"`
	TotalPages  int                     `json:"total_pages"`
}

// PermissionService manages door access grants.
type PermissionService struct {
	db *gorm.DB
}

// NewPermissionService constructs a PermissionService.
func NewPermissionService(db *gorm.DB) (*PermissionService, error) {
	if db == nil {
		return nil, errors.New("permission service: db is required")
	}
	return &PermissionService{db: db}, nil
}

// Create grants a user access to a door. An existing grant for the same
// (user, door) pair is rejected; storage itself enforces no uniqueness, the
// check runs at creation time only.
func (s *PermissionService) Create(ctx context.Context, input CreatePermissionInput) (*models.UserPermission, error) {
	ctx = ensureContext(ctx)
	userID := strings.TrimSpace(input.UserID)
	doorID := strings.TrimSpace(input.DoorID)
	if userID == "" {
		return nil, apperrors.NewBadRequest("user_id is required")
	}
	if doorID == "" {
		return nil, apperrors.NewBadRequest("door_id is required")
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user not found")
		}
		return nil, fmt.Errorf("permission service: load user: %w", err)
	}
	var door models.Door
	if err := s.db.WithContext(ctx).First(&door, "id = ?", doorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("door not found")
		}
		return nil, fmt.Errorf("permission service: load door: %w", err)
	}

	start, err := normalizeClockTime(input.AccessStartTime)
	if err != nil {
		return nil, apperrors.NewBadRequest(err.Error())
	}
	end, err := normalizeClockTime(input.AccessEndTime)
	if err != nil {
		return nil, apperrors.NewBadRequest(err.Error())
	}

	var existing int64
	if err := s.db.WithContext(ctx).
		Model(&models.UserPermission{}).
		Where("user_id = ? AND door_id = ?", userID, doorID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("permission service: check duplicate: %w", err)
	}
	if existing > 0 {
		return nil, apperrors.ErrPermissionExists
	}

	permission := models.UserPermission{
		UserID:          userID,
		DoorID:          doorID,
		AccessStartTime: start,
		AccessEndTime:   end,
		IsActive:        true,
	}
	if input.IsActive != nil {
		permission.IsActive = *input.IsActive
	}

	if err := s.db.WithContext(ctx).Create(&permission).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrPermissionExists
		}
		return nil, fmt.Errorf("permission service: create permission: %w", err)
	}
	return &permission, nil
}

// Get returns a single permission with its user and door.
func (s *PermissionService) Get(ctx context.Context, id string) (*models.UserPermission, error) {
	ctx = ensureContext(ctx)

	var permission models.UserPermission
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Door").
		First(&permission, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("permission not found")
		}
		return nil, fmt.Errorf("permission service: load permission: %w", err)
	}
	return &permission, nil
}

// Update mutates a permission's window or active flag.
func (s *PermissionService) Update(ctx context.Context, id string, input UpdatePermissionInput) (*models.UserPermission, error) {
	ctx = ensureContext(ctx)

	var permission models.UserPermission
	if err := s.db.WithContext(ctx).First(&permission, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("permission not found")
		}
		return nil, fmt.Errorf("permission service: load permission: %w", err)
	}

	updates := map[string]any{}
	if input.AccessStartTime != nil {
		start, err := normalizeClockTime(*input.AccessStartTime)
		if err != nil {
			return nil, apperrors.NewBadRequest(err.Error())
		}
		updates["access_start_time"] = start
	}
	if input.AccessEndTime != nil {
		end, err := normalizeClockTime(*input.AccessEndTime)
		if err != nil {
			return nil, apperrors.NewBadRequest(err.Error())
		}
		updates["access_end_time"] = end
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&permission).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("permission service: update permission: %w", err)
		}
	}

	if err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Door").
		First(&permission, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("permission service: reload permission: %w", err)
	}
	return &permission, nil
}

// Delete removes a permission outright.
func (s *PermissionService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Delete(&models.UserPermission{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("permission service: delete permission: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("permission not found")
	}
	return nil
}

// List returns permissions matching the filters.
func (s *PermissionService) List(ctx context.Context, input ListPermissionsInput) (*PermissionPage, error) {
	ctx = ensureContext(ctx)
	page, perPage := normalizePage(input.Page, input.PerPage)

	query := s.db.WithContext(ctx).Model(&models.UserPermission{})
	if input.UserID != "" {
		query = query.Where("user_id = ?", input.UserID)
	}
	if input.DoorID != "" {
		query = query.Where("door_id = ?", input.DoorID)
	}
	if input.IsActive != nil {
		query = query.Where("is_active = ?", *input.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("permission service: count permissions: %w", err)
	}

	var permissions []models.UserPermission
	if err := query.
		Preload("User").
		Preload("Door").
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&permissions).Error; err != nil {
		return nil, fmt.Errorf("permission service: list permissions: %w", err)
	}

	return &PermissionPage{
		Permissions: permissions,
		Total:       total,
		Page:        page,
		PerPage:     perPage,
		TotalPages:  totalPages(total, perPage),
	}, nil
}

// DoorUsers returns the permissions granting access to the door, with users.
func (s *PermissionService) DoorUsers(ctx context.Context, doorID string) ([]models.UserPermission, error) {
	ctx = ensureContext(ctx)

	var door models.Door
	if err := s.db.WithContext(ctx).First(&door, "id = ?", doorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("door not found")
		}
		return nil, fmt.Errorf("permission service: load door: %w", err)
	}

	var permissions []models.UserPermission
	if err := s.db.WithContext(ctx).
		Preload("User").
		Where("door_id = ?", doorID).
		Order("created_at ASC, id ASC").
		Find(&permissions).Error; err != nil {
		return nil, fmt.Errorf("permission service: list door users: %w", err)
	}
	return permissions, nil
}

// UserDoors returns the permissions held by the user, with doors.
func (s *PermissionService) UserDoors(ctx context.Context, userID string) ([]models.UserPermission, error) {
	ctx = ensureContext(ctx)

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user not found")
		}
		return nil, fmt.Errorf("permission service: load user: %w", err)
	}

	var permissions []models.UserPermission
	if err := s.db.WithContext(ctx).
		Preload("Door").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&permissions).Error; err != nil {
		return nil, fmt.Errorf("permission service: list user doors: %w", err)
	}
	return permissions, nil
}
