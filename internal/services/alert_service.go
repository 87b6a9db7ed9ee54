package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aryasetia/doorguard/internal/models"
	apperrors "github.com/aryasetia/doorguard/pkg/errors"
)

// ListAlertsInput defines filters for querying alerts.
type ListAlertsInput struct {
	DoorID         string
	AlertType      string
	IsAcknowledged *bool
	StartDate      *time.Time
	EndDate        *time.Time
	Page           int
	PerPage        int
}

// AlertPage is one page of alerts plus pagination totals.
type AlertPage struct {
	Alerts     []models.Alert `json:"alerts"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	TotalPages int            `json:"total_pages"`
}

// AlertService manages the alert lifecycle after creation.
type AlertService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAlertService constructs an AlertService.
func NewAlertService(db *gorm.DB) (*AlertService, error) {
	if db == nil {
		return nil, errors.New("alert service: db is required")
	}
	return &AlertService{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Acknowledge marks the alert as handled by the acting user. Acknowledgment
// is terminal; a second attempt fails with a conflict.
func (s *AlertService) Acknowledge(ctx context.Context, alertID, actingUserID string) (*models.Alert, error) {
	ctx = ensureContext(ctx)
	if alertID == "" {
		return nil, apperrors.NewBadRequest("alert id is required")
	}
	if actingUserID == "" {
		return nil, apperrors.NewBadRequest("acting user id is required")
	}

	var alert models.Alert
	if err := s.db.WithContext(ctx).First(&alert, "id = ?", alertID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("alert not found")
		}
		return nil, fmt.Errorf("alert service: load alert: %w", err)
	}

	if alert.IsAcknowledged {
		return nil, apperrors.ErrAlertAcknowledged
	}

	now := s.now()

	// The guarded update keeps two concurrent acknowledgments from both
	// succeeding.
	result := s.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("id = ? AND is_acknowledged = ?", alertID, false).
		Updates(map[string]any{
			"is_acknowledged": true,
			"acknowledged_by": actingUserID,
			"acknowledged_at": now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("alert service: acknowledge alert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrAlertAcknowledged
	}

	if err := s.db.WithContext(ctx).
		Preload("Door").
		Preload("AcknowledgedByUser").
		First(&alert, "id = ?", alertID).Error; err != nil {
		return nil, fmt.Errorf("alert service: reload alert: %w", err)
	}
	return &alert, nil
}

// Get returns a single alert with its door and movement context.
func (s *AlertService) Get(ctx context.Context, alertID string) (*models.Alert, error) {
	ctx = ensureContext(ctx)

	var alert models.Alert
	err := s.db.WithContext(ctx).
		Preload("Door").
		Preload("MovementDetection").
		Preload("AcknowledgedByUser").
		First(&alert, "id = ?", alertID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("alert not found")
		}
		return nil, fmt.Errorf("alert service: load alert: %w", err)
	}
	return &alert, nil
}

// List returns alerts matching the filters, newest first.
func (s *AlertService) List(ctx context.Context, input ListAlertsInput) (*AlertPage, error) {
	ctx = ensureContext(ctx)
	page, perPage := normalizePage(input.Page, input.PerPage)

	query := s.db.WithContext(ctx).Model(&models.Alert{})
	if input.DoorID != "" {
		query = query.Where("door_id = ?", input.DoorID)
	}
	if input.AlertType != "" {
		query = query.Where("alert_type = ?", input.AlertType)
	}
	if input.IsAcknowledged != nil {
		query = query.Where("is_acknowledged = ?", *input.IsAcknowledged)
	}
	if input.StartDate != nil {
		query = query.Where("triggered_at >= ?", *input.StartDate)
	}
	if input.EndDate != nil {
		query = query.Where("triggered_at <= ?", *input.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("alert service: count alerts: %w", err)
	}

	var alerts []models.Alert
	if err := query.
		Preload("Door").
		Preload("AcknowledgedByUser").
		Order("triggered_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("alert service: list alerts: %w", err)
	}

	return &AlertPage{
		Alerts:     alerts,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages(total, perPage),
	}, nil
}

// Unacknowledged returns every open alert, newest first.
func (s *AlertService) Unacknowledged(ctx context.Context) ([]models.Alert, error) {
	ctx = ensureContext(ctx)

	var alerts []models.Alert
	if err := s.db.WithContext(ctx).
		Preload("Door").
		Where("is_acknowledged = ?", false).
		Order("triggered_at DESC").
		Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("alert service: list unacknowledged alerts: %w", err)
	}
	return alerts, nil
}
