package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aryasetia/doorguard/internal/services"
	apperrors "github.com/aryasetia/doorguard/pkg/errors"
	"github.com/aryasetia/doorguard/pkg/response"
)

// CardHandler exposes RFID card management endpoints.
type CardHandler struct {
	cards *services.CardService
}

// NewCardHandler constructs a card handler.
func NewCardHandler(db *gorm.DB) (*CardHandler, error) {
	cards, err := services.NewCardService(db)
	if err != nil {
		return nil, err
	}
	return &CardHandler{cards: cards}, nil
}

type createCardRequest struct {
	CardNumber string `json:"card_number" validate:"required,max=64"`
	CardName   string `json:"card_name" validate:"max=255"`
	UserID     string `json:"user_id"`
	IsActive   *bool  `json:"is_active"`
	ExpiresAt  string `json:"expires_at"`
}

// Create issues a new card.
func (h *CardHandler) Create(c *gin.Context) {
	var payload createCardRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	expiresAt, err := parseOptionalTime(payload.ExpiresAt)
	if err != nil {
		response.Error(c, apperrors.NewBadRequest("expires_at must be an RFC3339 timestamp"))
		return
	}

	card, err := h.cards.Create(requestContext(c), services.CreateCardInput{
		CardNumber: payload.CardNumber,
		CardName:   payload.CardName,
		UserID:     payload.UserID,
		IsActive:   payload.IsActive,
		ExpiresAt:  expiresAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, card)
}

// List returns cards matching the query filters. Non-admin callers only see
// their own cards.
func (h *CardHandler) List(c *gin.Context) {
	input := services.ListCardsInput{
		UserID:   strings.TrimSpace(c.Query("user_id")),
		IsActive: parseBoolQuery(c, "is_active"),
		Page:     parseIntQuery(c, "page", 1),
		PerPage:  parseIntQuery(c, "per_page", 15),
	}
	if !currentUserIsAdmin(c) {
		input.UserID = currentUserID(c)
	}

	page, err := h.cards.List(requestContext(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, page.Cards, &response.Meta{
		Page:       page.Page,
		PerPage:    page.PerPage,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	})
}

// Get returns a single card.
func (h *CardHandler) Get(c *gin.Context) {
	card, err := h.cards.Get(requestContext(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}

	if !currentUserIsAdmin(c) {
		if card.UserID == nil || *card.UserID != currentUserID(c) {
			response.Error(c, apperrors.ErrForbidden)
			return
		}
	}

	response.Success(c, http.StatusOK, card)
}

type updateCardRequest struct {
	CardName  *string `json:"card_name" validate:"omitempty,max=255"`
	UserID    *string `json:"user_id"`
	IsActive  *bool   `json:"is_active"`
	ExpiresAt *string `json:"expires_at"`
}

// Update mutates a card. The card number itself is immutable.
func (h *CardHandler) Update(c *gin.Context) {
	var payload updateCardRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	input := services.UpdateCardInput{
		CardName: payload.CardName,
		UserID:   payload.UserID,
		IsActive: payload.IsActive,
	}
	if payload.ExpiresAt != nil {
		if strings.TrimSpace(*payload.ExpiresAt) == "" {
			input.ClearExpiry = true
		} else {
			expiresAt, err := parseOptionalTime(*payload.ExpiresAt)
			if err != nil {
				response.Error(c, apperrors.NewBadRequest("expires_at must be an RFC3339 timestamp"))
				return
			}
			input.ExpiresAt = expiresAt
		}
	}

	card, err := h.cards.Update(requestContext(c), strings.TrimSpace(c.Param("id")), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, card)
}

// Delete retires a card.
func (h *CardHandler) Delete(c *gin.Context) {
	if err := h.cards.Delete(requestContext(c), strings.TrimSpace(c.Param("id"))); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func parseOptionalTime(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	ts = ts.UTC()
	return &ts, nil
}
