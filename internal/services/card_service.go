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

// CreateCardInput defines attributes for issuing an RFID card.
type CreateCardInput struct {
	CardNumber string
	CardName   string
	UserID     string
	IsActive   *bool
	ExpiresAt  *time.Time
}

// UpdateCardInput defines mutable card attributes. Nil fields are untouched.
type UpdateCardInput struct {
	CardName  *string
	UserID    *string
	IsActive  *bool
	ExpiresAt *time.Time
	// ClearExpiry removes the expiry when true.
	ClearExpiry bool
}

// ListCardsInput defines filters for querying cards.
type ListCardsInput struct {
	UserID   string
	IsActive *bool
	Page     int
	PerPage  int
}

// CardPage is one page of cards plus pagination totals.
type CardPage struct {
	Cards      []models.RfidCard `json:"cards"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
	TotalPages int               `json:"total_pages"`
}

// CardService manages RFID card issuance and lifecycle.
type CardService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCardService constructs a CardService.
func NewCardService(db *gorm.DB) (*CardService, error) {
	if db == nil {
		return nil, errors.New("card service: db is required")
	}
	return &CardService{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Create issues a new card, optionally bound to a user.
func (s *CardService) Create(ctx context.Context, input CreateCardInput) (*models.RfidCard, error) {
	ctx = ensureContext(ctx)
	cardNumber := strings.TrimSpace(input.CardNumber)
	if cardNumber == "" {
		return nil, apperrors.NewBadRequest("card_number is required")
	}

	card := models.RfidCard{
		CardNumber: cardNumber,
		CardName:   strings.TrimSpace(input.CardName),
		IsActive:   true,
		IssuedAt:   s.now(),
		ExpiresAt:  input.ExpiresAt,
	}
	if input.IsActive != nil {
		card.IsActive = *input.IsActive
	}

	if userID := strings.TrimSpace(input.UserID); userID != "" {
		var user models.User
		if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NewNotFound("user not found")
			}
			return nil, fmt.Errorf("card service: load user: %w", err)
		}
		card.UserID = &user.ID
	}

	if err := s.db.WithContext(ctx).Create(&card).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.New("CARD_EXISTS", "card number already registered", 409)
		}
		return nil, fmt.Errorf("card service: create card: %w", err)
	}
	return &card, nil
}

// Get returns a single card with its owner.
func (s *CardService) Get(ctx context.Context, id string) (*models.RfidCard, error) {
	ctx = ensureContext(ctx)

	var card models.RfidCard
	err := s.db.WithContext(ctx).Preload("User").First(&card, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("card not found")
		}
		return nil, fmt.Errorf("card service: load card: %w", err)
	}
	return &card, nil
}

// List returns cards matching the filters.
func (s *CardService) List(ctx context.Context, input ListCardsInput) (*CardPage, error) {
	ctx = ensureContext(ctx)
	page, perPage := normalizePage(input.Page, input.PerPage)

	query := s.db.WithContext(ctx).Model(&models.RfidCard{})
	if input.UserID != "" {
		query = query.Where("user_id = ?", input.UserID)
	}
	if input.IsActive != nil {
		query = query.Where("is_active = ?", *input.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("card service: count cards: %w", err)
	}

	var cards []models.RfidCard
	if err := query.
		Preload("User").
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("card service: list cards: %w", err)
	}

	return &CardPage{
		Cards:      cards,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages(total, perPage),
	}, nil
}

// Update mutates a card's attributes. The card number itself is immutable.
func (s *CardService) Update(ctx context.Context, id string, input UpdateCardInput) (*models.RfidCard, error) {
	ctx = ensureContext(ctx)

	var card models.RfidCard
	if err := s.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("card not found")
		}
		return nil, fmt.Errorf("card service: load card: %w", err)
	}

	updates := map[string]any{}
	if input.CardName != nil {
		updates["card_name"] = strings.TrimSpace(*input.CardName)
	}
	if input.UserID != nil {
		userID := strings.TrimSpace(*input.UserID)
		if userID == "" {
			updates["user_id"] = nil
		} else {
			var user models.User
			if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, apperrors.NewNotFound("user not found")
				}
				return nil, fmt.Errorf("card service: load user: %w", err)
			}
			updates["user_id"] = user.ID
		}
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.ClearExpiry {
		updates["expires_at"] = nil
	} else if input.ExpiresAt != nil {
		updates["expires_at"] = *input.ExpiresAt
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&card).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("card service: update card: %w", err)
		}
	}

	if err := s.db.WithContext(ctx).Preload("User").First(&card, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("card service: reload card: %w", err)
	}
	return &card, nil
}

// Delete retires a card. The row is soft deleted so historical ledger rows
// keep a resolvable reference.
func (s *CardService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Delete(&models.RfidCard{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("card service: delete card: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("card not found")
	}
	return nil
}
