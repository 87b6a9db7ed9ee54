package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/aryasetia/doorguard/internal/models"
	apperrors "github.com/aryasetia/doorguard/pkg/errors"
)

// CreateDoorInput defines attributes for registering a door.
type CreateDoorInput struct {
	Name        string
	Location    string
	Description string
	IsActive    *bool
}

// UpdateDoorInput defines mutable door attributes. Nil fields are untouched.
type UpdateDoorInput struct {
	Name        *string
	Location    *string
	Description *string
	IsActive    *bool
}

// ChangeDoorStatusInput appends a new row to a door's status history.
type ChangeDoorStatusInput struct {
	Status       string
	ChangeMethod string
	ChangedBy    string
}

// DoorWithStatus pairs a door with its most recent status row.
type DoorWithStatus struct {
	Door          models.Door        `json:"door"`
	CurrentStatus *models.DoorStatus `json:"current_status"`
}

// DoorService manages doors and their append-only status history.
type DoorService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDoorService constructs a DoorService.
func NewDoorService(db *gorm.DB) (*DoorService, error) {
	if db == nil {
		return nil, errors.New("door service: db is required")
	}
	return &DoorService{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Create registers a new door.
func (s *DoorService) Create(ctx context.Context, input CreateDoorInput) (*models.Door, error) {
	ctx = ensureContext(ctx)
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("name is required")
	}

	door := models.Door{
		Name:        name,
		Location:    strings.TrimSpace(input.Location),
		Description: strings.TrimSpace(input.Description),
		IsActive:    true,
	}
	if input.IsActive != nil {
		door.IsActive = *input.IsActive
	}

	if err := s.db.WithContext(ctx).Create(&door).Error; err != nil {
		return nil, fmt.Errorf("door service: create door: %w", err)
	}
	return &door, nil
}

// Get returns a single door.
func (s *DoorService) Get(ctx context.Context, id string) (*models.Door, error) {
	ctx = ensureContext(ctx)

	var door models.Door
	if err := s.db.WithContext(ctx).First(&door, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("door not found")
		}
		return nil, fmt.Errorf("door service: load door: %w", err)
	}
	return &door, nil
}

// List returns all doors ordered by name.
func (s *DoorService) List(ctx context.Context) ([]models.Door, error) {
	ctx = ensureContext(ctx)

	var doors []models.Door
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&doors).Error; err != nil {
		return nil, fmt.Errorf("door service: list doors: %w", err)
	}
	return doors, nil
}

// Update mutates a door's attributes.
func (s *DoorService) Update(ctx context.Context, id string, input UpdateDoorInput) (*models.Door, error) {
	ctx = ensureContext(ctx)

	var door models.Door
	if err := s.db.WithContext(ctx).First(&door, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("door not found")
		}
		return nil, fmt.Errorf("door service: load door: %w", err)
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewBadRequest("name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Location != nil {
		updates["location"] = strings.TrimSpace(*input.Location)
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&door).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("door service: update door: %w", err)
		}
	}

	if err := s.db.WithContext(ctx).First(&door, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("door service: reload door: %w", err)
	}
	return &door, nil
}

// Delete soft deletes a door. Ledger rows and status history keep their
// door_id and stay queryable.
func (s *DoorService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Delete(&models.Door{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("door service: delete door: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("door not found")
	}
	return nil
}

// ChangeStatus appends a status row for the door. History is never mutated;
// the newest row is the door's current status.
func (s *DoorService) ChangeStatus(ctx context.Context, doorID string, input ChangeDoorStatusInput) (*models.DoorStatus, error) {
	ctx = ensureContext(ctx)

	if !models.ValidDoorStatus(input.Status) {
		return nil, apperrors.NewBadRequest("invalid door status")
	}
	method := input.ChangeMethod
	if method == "" {
		method = models.ChangeMethodManual
	}
	if !models.ValidChangeMethod(method) {
		return nil, apperrors.NewBadRequest("invalid change method")
	}

	var door models.Door
	if err := s.db.WithContext(ctx).First(&door, "id = ?", doorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("door not found")
		}
		return nil, fmt.Errorf("door service: load door: %w", err)
	}

	status := models.DoorStatus{
		DoorID:          doorID,
		Status:          input.Status,
		ChangeMethod:    method,
		StatusChangedAt: s.now(),
	}
	if changedBy := strings.TrimSpace(input.ChangedBy); changedBy != "" {
		status.ChangedBy = &changedBy
	}

	if err := s.db.WithContext(ctx).Create(&status).Error; err != nil {
		return nil, fmt.Errorf("door service: record status: %w", err)
	}
	return &status, nil
}

// History returns the door's status rows, newest first.
func (s *DoorService) History(ctx context.Context, doorID string, limit int) ([]models.DoorStatus, error) {
	ctx = ensureContext(ctx)

	var door models.Door
	if err := s.db.WithContext(ctx).First(&door, "id = ?", doorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("door not found")
		}
		return nil, fmt.Errorf("door service: load door: %w", err)
	}

	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var history []models.DoorStatus
	if err := s.db.WithContext(ctx).
		Where("door_id = ?", doorID).
		Order("status_changed_at DESC, id DESC").
		Limit(limit).
		Find(&history).Error; err != nil {
		return nil, fmt.Errorf("door service: load history: %w", err)
	}
	return history, nil
}

// CurrentStatuses returns every door paired with its latest status row, or
// nil status for doors with no history yet.
func (s *DoorService) CurrentStatuses(ctx context.Context) ([]DoorWithStatus, error) {
	ctx = ensureContext(ctx)

	doors, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]DoorWithStatus, 0, len(doors))
	for _, door := range doors {
		var status models.DoorStatus
		err := s.db.WithContext(ctx).
			Where("door_id = ?", door.ID).
			Order("status_changed_at DESC, id DESC").
			First(&status).Error
		switch {
		case err == nil:
			out = append(out, DoorWithStatus{Door: door, CurrentStatus: &status})
		case errors.Is(err, gorm.ErrRecordNotFound):
			out = append(out, DoorWithStatus{Door: door})
		default:
			return nil, fmt.Errorf("door service: load current status: %w", err)
		}
	}
	return out, nil
}
