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
	"github.com/aryasetia/doorguard/pkg/metrics"
)

// Rejection reasons returned by VerifySwipe. Granted swipes carry no reason.
const (
	ReasonUnknownCard  = "unknown_card"
	ReasonInactiveCard = "inactive_card"
	ReasonExpiredCard  = "expired_card"
	ReasonInactiveUser = "inactive_user"
	ReasonNoPermission = "no_permission"
	ReasonOutsideHours = "outside_hours"
)

// VerifySwipeInput carries the raw device payload for a card swipe.
type VerifySwipeInput struct {
	CardNumber string
	DoorID     string
}

// SwipeUser identifies the granted user for device display.
type SwipeUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SwipeResult is the decision for a single swipe. Every decision, granted or
// not, has already been appended to the access ledger when this is returned.
type SwipeResult struct {
	AccessGranted bool       `json:"access_granted"`
	Reason        string     `json:"reason,omitempty"`
	LogID         string     `json:"log_id"`
	User          *SwipeUser `json:"user,omitempty"`
}

// ListAccessLogsInput defines filters for querying the access ledger.
type ListAccessLogsInput struct {
	UserID     string
	DoorID     string
	RfidCardID string
	AccessType string
	Status     string
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	PerPage    int

	// ActorID restricts results to the actor's own rows unless ActorIsAdmin.
	ActorID      string
	ActorIsAdmin bool
}

// AccessLogPage is one page of ledger rows plus pagination totals.
type AccessLogPage struct {
	Logs       []models.AccessLog `json:"logs"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PerPage    int                `json:"per_page"`
	TotalPages int                `json:"total_pages"`
}

// AccessStatPoint is one bucket of granted-swipe counts.
type AccessStatPoint struct {
	Date  string `json:"date"`
	Total int64  `json:"total"`
}

const (
	StatsIntervalDay   = "day"
	StatsIntervalWeek  = "week"
	StatsIntervalMonth = "month"
)

// AccessService is the access decision engine plus read access to the ledger.
type AccessService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAccessService constructs an AccessService.
func NewAccessService(db *gorm.DB) (*AccessService, error) {
	if db == nil {
		return nil, errors.New("access service: db is required")
	}
	return &AccessService{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// VerifySwipe decides whether the swiped card may open the door. The checks
// run in a fixed order and stop at the first failure. Each call appends
// exactly one ledger row, so this is never a pure read.
func (s *AccessService) VerifySwipe(ctx context.Context, input VerifySwipeInput) (*SwipeResult, error) {
	ctx = ensureContext(ctx)
	cardNumber := strings.TrimSpace(input.CardNumber)
	doorID := strings.TrimSpace(input.DoorID)
	if cardNumber == "" {
		return nil, apperrors.NewBadRequest("card_number is required")
	}
	if doorID == "" {
		return nil, apperrors.NewBadRequest("door_id is required")
	}

	// The door must exist before any decision logic runs. A bad door id is a
	// validation failure and must not produce a ledger row.
	var door models.Door
	if err := s.db.WithContext(ctx).First(&door, "id = ?", doorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("door not found")
		}
		return nil, fmt.Errorf("access service: load door: %w", err)
	}

	now := s.now()

	var card models.RfidCard
	err := s.db.WithContext(ctx).First(&card, "card_number = ?", cardNumber).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.reject(ctx, ReasonUnknownCard, nil, nil, doorID, now)
	case err != nil:
		return nil, fmt.Errorf("access service: load card: %w", err)
	}

	if !card.IsValid(now) {
		reason := ReasonInactiveCard
		if card.IsExpired(now) {
			reason = ReasonExpiredCard
		}
		return s.reject(ctx, reason, card.UserID, &card.ID, doorID, now)
	}

	var user models.User
	if card.UserID != nil {
		err = s.db.WithContext(ctx).First(&user, "id = ?", *card.UserID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("access service: load user: %w", err)
		}
	}
	if card.UserID == nil || errors.Is(err, gorm.ErrRecordNotFound) || !user.IsActive {
		return s.reject(ctx, ReasonInactiveUser, card.UserID, &card.ID, doorID, now)
	}

	// Duplicates may exist in storage, so the earliest-created active
	// permission is authoritative.
	var permission models.UserPermission
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND door_id = ? AND is_active = ?", user.ID, doorID, true).
		Order("created_at ASC, id ASC").
		First(&permission).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.reject(ctx, ReasonNoPermission, &user.ID, &card.ID, doorID, now)
	case err != nil:
		return nil, fmt.Errorf("access service: load permission: %w", err)
	}

	if !permission.AllowsAt(now) {
		return s.reject(ctx, ReasonOutsideHours, &user.ID, &card.ID, doorID, now)
	}

	entry := models.AccessLog{
		UserID:     &user.ID,
		RfidCardID: &card.ID,
		DoorID:     doorID,
		AccessType: models.AccessTypeAuthorized,
		Status:     models.AccessStatusSuccess,
		AccessedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("access service: append ledger: %w", err)
	}
	metrics.AccessDecisions.WithLabelValues("granted").Inc()

	return &SwipeResult{
		AccessGranted: true,
		LogID:         entry.ID,
		User:          &SwipeUser{ID: user.ID, Name: user.Name},
	}, nil
}

func (s *AccessService) reject(ctx context.Context, reason string, userID, cardID *string, doorID string, now time.Time) (*SwipeResult, error) {
	entry := models.AccessLog{
		UserID:     userID,
		RfidCardID: cardID,
		DoorID:     doorID,
		AccessType: models.AccessTypeUnauthorized,
		Status:     models.AccessStatusFailed,
		AccessedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("access service: append ledger: %w", err)
	}
	metrics.AccessDecisions.WithLabelValues(reason).Inc()

	return &SwipeResult{AccessGranted: false, Reason: reason, LogID: entry.ID}, nil
}

// List returns ledger rows matching the filters, newest first. Non-admin
// actors only ever see their own rows.
func (s *AccessService) List(ctx context.Context, input ListAccessLogsInput) (*AccessLogPage, error) {
	ctx = ensureContext(ctx)
	page, perPage := normalizePage(input.Page, input.PerPage)

	query := s.db.WithContext(ctx).Model(&models.AccessLog{})
	if !input.ActorIsAdmin && input.ActorID != "" {
		query = query.Where("user_id = ?", input.ActorID)
	}
	if input.UserID != "" {
		query = query.Where("user_id = ?", input.UserID)
	}
	if input.DoorID != "" {
		query = query.Where("door_id = ?", input.DoorID)
	}
	if input.RfidCardID != "" {
		query = query.Where("rfid_card_id = ?", input.RfidCardID)
	}
	if input.AccessType != "" {
		query = query.Where("access_type = ?", input.AccessType)
	}
	if input.Status != "" {
		query = query.Where("status = ?", input.Status)
	}
	if input.StartDate != nil {
		query = query.Where("accessed_at >= ?", *input.StartDate)
	}
	if input.EndDate != nil {
		query = query.Where("accessed_at <= ?", *input.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("access service: count logs: %w", err)
	}

	var logs []models.AccessLog
	if err := query.
		Preload("User").
		Preload("Door").
		Preload("RfidCard").
		Order("accessed_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("access service: list logs: %w", err)
	}

	return &AccessLogPage{
		Logs:       logs,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages(total, perPage),
	}, nil
}

// Statistics buckets granted swipes by day, ISO week start or month.
// Grouping happens in memory so the query stays portable across drivers.
func (s *AccessService) Statistics(ctx context.Context, interval string) ([]AccessStatPoint, error) {
	ctx = ensureContext(ctx)
	switch interval {
	case "", StatsIntervalDay:
		interval = StatsIntervalDay
	case StatsIntervalWeek, StatsIntervalMonth:
	default:
		return nil, apperrors.NewBadRequest("interval must be day, week or month")
	}

	var stamps []time.Time
	if err := s.db.WithContext(ctx).
		Model(&models.AccessLog{}).
		Where("access_type = ? AND status = ?", models.AccessTypeAuthorized, models.AccessStatusSuccess).
		Order("accessed_at ASC").
		Pluck("accessed_at", &stamps).Error; err != nil {
		return nil, fmt.Errorf("access service: load statistics: %w", err)
	}

	counts := make(map[string]int64)
	var order []string
	for _, ts := range stamps {
		key := bucketKey(ts.UTC(), interval)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	points := make([]AccessStatPoint, 0, len(order))
	for _, key := range order {
		points = append(points, AccessStatPoint{Date: key, Total: counts[key]})
	}
	return points, nil
}

func bucketKey(ts time.Time, interval string) string {
	switch interval {
	case StatsIntervalWeek:
		// Buckets start on Monday.
		offset := (int(ts.Weekday()) + 6) % 7
		return ts.AddDate(0, 0, -offset).Format("2006-01-02")
	case StatsIntervalMonth:
		return ts.Format("2006-01")
	default:
		return ts.Format("2006-01-02")
	}
}
