package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/aryasetia/doorguard/internal/models"
	apperrors "github.com/aryasetia/doorguard/pkg/errors"
	"github.com/aryasetia/doorguard/pkg/metrics"
)

// DefaultAuthorizationWindow bounds how long after a granted swipe a motion
// report still counts as authorized.
const DefaultAuthorizationWindow = 30 * time.Second

// ReportMovementInput carries one sensor report.
type ReportMovementInput struct {
	DoorID   string
	SensorID string
}

// MovementOutcome is the correlator's verdict for a single report.
type MovementOutcome struct {
	MovementLogged bool   `json:"movement_logged"`
	MovementID     string `json:"movement_id"`
	RequiresAction bool   `json:"requires_action"`
	AlertCreated   bool   `json:"alert_created,omitempty"`
	AlertID        string `json:"alert_id,omitempty"`
	Message        string `json:"message"`
}

// ListMovementsInput defines filters for querying motion events.
type ListMovementsInput struct {
	DoorID                 string
	HasRecentAuthorization *bool
	StartDate              *time.Time
	EndDate                *time.Time
	Page                   int
	PerPage                int
}

// MovementPage is one page of motion events plus pagination totals.
type MovementPage struct {
	Movements  []models.MovementDetection `json:"movements"`
	Total      int64                      `json:"total"`
	Page       int                        `json:"page"`
	PerPage    int                        `json:"per_page"`
	TotalPages int                        `json:"total_pages"`
}

// MovementDailyStat is one day of motion counts.
type MovementDailyStat struct {
	Date         string `json:"date"`
	Total        int64  `json:"total"`
	Authorized   int64  `json:"authorized"`
	Unauthorized int64  `json:"unauthorized"`
}

// MovementDoorStat aggregates motion counts for one door.
type MovementDoorStat struct {
	DoorID       string `json:"door_id"`
	DoorName     string `json:"door_name"`
	DoorLocation string `json:"door_location"`
	Total        int64  `json:"movement_count"`
	Authorized   int64  `json:"authorized"`
	Unauthorized int64  `json:"unauthorized"`
}

// MovementStatistics summarises motion activity over a date range.
type MovementStatistics struct {
	TotalMovements        int64               `json:"total_movements"`
	AuthorizedMovements   int64               `json:"authorized_movements"`
	UnauthorizedMovements int64               `json:"unauthorized_movements"`
	AuthorizationRate     float64             `json:"authorization_rate"`
	DailyStats            []MovementDailyStat `json:"daily_stats"`
	DoorStats             []MovementDoorStat  `json:"door_stats"`
}

// MovementService correlates sensor motion reports with the access ledger
// and raises alerts for movement without a recent granted swipe.
type MovementService struct {
	db       *gorm.DB
	notifier *SecurityNotifier
	window   time.Duration
	now      func() time.Time
}

// NewMovementService constructs a MovementService. A non-positive window
// falls back to DefaultAuthorizationWindow. The notifier may be nil.
func NewMovementService(db *gorm.DB, notifier *SecurityNotifier, window time.Duration) (*MovementService, error) {
	if db == nil {
		return nil, errors.New("movement service: db is required")
	}
	if window <= 0 {
		window = DefaultAuthorizationWindow
	}
	return &MovementService{
		db:       db,
		notifier: notifier,
		window:   window,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// Report records one motion event and, when the door saw no granted swipe
// within the authorization window, raises an alert. The window check and the
// duration-since-last-grant are computed independently: the duration is
// diagnostic context even when an older grant exists outside the window, and
// stays nil when the door has never seen a grant at all.
func (s *MovementService) Report(ctx context.Context, input ReportMovementInput) (*MovementOutcome, error) {
	ctx = ensureContext(ctx)
	doorID := strings.TrimSpace(input.DoorID)
	if doorID == "" {
		return nil, apperrors.NewBadRequest("door_id is required")
	}

	var door models.Door
	if err := s.db.WithContext(ctx).First(&door, "id = ?", doorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("door not found")
		}
		return nil, fmt.Errorf("movement service: load door: %w", err)
	}

	now := s.now()

	var recent int64
	if err := s.db.WithContext(ctx).
		Model(&models.AccessLog{}).
		Where("door_id = ? AND access_type = ? AND status = ? AND accessed_at >= ?",
			doorID, models.AccessTypeAuthorized, models.AccessStatusSuccess, now.Add(-s.window)).
		Count(&recent).Error; err != nil {
		return nil, fmt.Errorf("movement service: check recent authorization: %w", err)
	}
	hasRecentAuthorization := recent > 0

	var unauthorizedDuration *int64
	var last models.AccessLog
	err := s.db.WithContext(ctx).
		Where("door_id = ? AND access_type = ? AND status = ?",
			doorID, models.AccessTypeAuthorized, models.AccessStatusSuccess).
		Order("accessed_at DESC").
		First(&last).Error
	switch {
	case err == nil:
		seconds := int64(now.Sub(last.AccessedAt).Seconds())
		unauthorizedDuration = &seconds
	case errors.Is(err, gorm.ErrRecordNotFound):
		// No grant has ever been recorded for this door.
	default:
		return nil, fmt.Errorf("movement service: load last authorization: %w", err)
	}

	movement := models.MovementDetection{
		DoorID:                 doorID,
		SensorID:               strings.TrimSpace(input.SensorID),
		HasRecentAuthorization: hasRecentAuthorization,
		UnauthorizedDuration:   unauthorizedDuration,
		DetectedAt:             now,
	}
	if err := s.db.WithContext(ctx).Create(&movement).Error; err != nil {
		return nil, fmt.Errorf("movement service: record movement: %w", err)
	}

	if hasRecentAuthorization {
		metrics.MovementReports.WithLabelValues("authorized").Inc()
		return &MovementOutcome{
			MovementLogged: true,
			MovementID:     movement.ID,
			RequiresAction: false,
			Message:        "Movement logged with recent authorization.",
		}, nil
	}

	metrics.MovementReports.WithLabelValues("suspicious").Inc()

	metadata, err := json.Marshal(map[string]any{
		"sensor_id":             movement.SensorID,
		"unauthorized_duration": unauthorizedDuration,
		"window_seconds":        int64(s.window.Seconds()),
	})
	if err != nil {
		return nil, fmt.Errorf("movement service: encode alert metadata: %w", err)
	}

	alert := models.Alert{
		DoorID:              doorID,
		MovementDetectionID: &movement.ID,
		AlertType:           models.AlertTypeUnauthorizedMovement,
		Description:         fmt.Sprintf("Unauthorized movement detected at door: %s (%s)", door.Name, door.Location),
		Metadata:            metadata,
		TriggeredAt:         now,
	}
	if err := s.db.WithContext(ctx).Create(&alert).Error; err != nil {
		return nil, fmt.Errorf("movement service: create alert: %w", err)
	}
	metrics.AlertsRaised.Inc()

	if s.notifier != nil {
		s.notifier.Notify(alert, door)
	}

	return &MovementOutcome{
		MovementLogged: true,
		MovementID:     movement.ID,
		RequiresAction: true,
		AlertCreated:   true,
		AlertID:        alert.ID,
		Message:        "Unauthorized movement detected! Alert has been created.",
	}, nil
}

// List returns motion events matching the filters, newest first.
func (s *MovementService) List(ctx context.Context, input ListMovementsInput) (*MovementPage, error) {
	ctx = ensureContext(ctx)
	page, perPage := normalizePage(input.Page, input.PerPage)

	query := s.db.WithContext(ctx).Model(&models.MovementDetection{})
	if input.DoorID != "" {
		query = query.Where("door_id = ?", input.DoorID)
	}
	if input.HasRecentAuthorization != nil {
		query = query.Where("has_recent_authorization = ?", *input.HasRecentAuthorization)
	}
	if input.StartDate != nil {
		query = query.Where("detected_at >= ?", *input.StartDate)
	}
	if input.EndDate != nil {
		query = query.Where("detected_at <= ?", *input.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("movement service: count movements: %w", err)
	}

	var movements []models.MovementDetection
	if err := query.
		Preload("Door").
		Preload("Alert").
		Order("detected_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&movements).Error; err != nil {
		return nil, fmt.Errorf("movement service: list movements: %w", err)
	}

	return &MovementPage{
		Movements:  movements,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages(total, perPage),
	}, nil
}

// Statistics aggregates motion activity over the range, defaulting to the
// trailing 30 days. Aggregation happens in memory so the query stays
// portable across drivers.
func (s *MovementService) Statistics(ctx context.Context, startDate, endDate *time.Time) (*MovementStatistics, error) {
	ctx = ensureContext(ctx)

	from := s.now().AddDate(0, 0, -30)
	if startDate != nil {
		from = *startDate
	}

	query := s.db.WithContext(ctx).
		Model(&models.MovementDetection{}).
		Where("detected_at >= ?", from)
	if endDate != nil {
		query = query.Where("detected_at <= ?", *endDate)
	}

	var movements []models.MovementDetection
	if err := query.Preload("Door").Order("detected_at ASC").Find(&movements).Error; err != nil {
		return nil, fmt.Errorf("movement service: load statistics: %w", err)
	}

	stats := &MovementStatistics{
		DailyStats: []MovementDailyStat{},
		DoorStats:  []MovementDoorStat{},
	}

	daily := make(map[string]*MovementDailyStat)
	var dayOrder []string
	doors := make(map[string]*MovementDoorStat)

	for _, m := range movements {
		stats.TotalMovements++
		day := m.DetectedAt.UTC().Format("2006-01-02")
		d, ok := daily[day]
		if !ok {
			d = &MovementDailyStat{Date: day}
			daily[day] = d
			dayOrder = append(dayOrder, day)
		}
		ds, ok := doors[m.DoorID]
		if !ok {
			ds = &MovementDoorStat{DoorID: m.DoorID}
			if m.Door != nil {
				ds.DoorName = m.Door.Name
				ds.DoorLocation = m.Door.Location
			}
			doors[m.DoorID] = ds
		}

		d.Total++
		ds.Total++
		if m.HasRecentAuthorization {
			stats.AuthorizedMovements++
			d.Authorized++
			ds.Authorized++
		} else {
			stats.UnauthorizedMovements++
			d.Unauthorized++
			ds.Unauthorized++
		}
	}

	if stats.TotalMovements > 0 {
		rate := float64(stats.AuthorizedMovements) / float64(stats.TotalMovements) * 100
		stats.AuthorizationRate = float64(int(rate*100+0.5)) / 100
	}

	for _, day := range dayOrder {
		stats.DailyStats = append(stats.DailyStats, *daily[day])
	}
	for _, ds := range doors {
		stats.DoorStats = append(stats.DoorStats, *ds)
	}
	sort.Slice(stats.DoorStats, func(i, j int) bool {
		if stats.DoorStats[i].Total != stats.DoorStats[j].Total {
			return stats.DoorStats[i].Total > stats.DoorStats[j].Total
		}
		return stats.DoorStats[i].DoorID < stats.DoorStats[j].DoorID
	})
	if len(stats.DoorStats) > 5 {
		stats.DoorStats = stats.DoorStats[:5]
	}

	return stats, nil
}
