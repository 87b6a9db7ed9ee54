package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aryasetia/doorguard/internal/database/testutil"
	"github.com/aryasetia/doorguard/internal/models"
	apperrors "github.com/aryasetia/doorguard/pkg/errors"
)

type movementFixture struct {
	db   *gorm.DB
	svc  *MovementService
	door models.Door
}

func newMovementFixture(t *testing.T, at time.Time) *movementFixture {
	t.Helper()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	door := models.Door{Name: "Lab", Location: "Floor 2", IsActive: true}
	require.NoError(t, db.Create(&door).Error)

	svc, err := NewMovementService(db, nil, 30*time.Second)
	require.NoError(t, err)
	svc.now = func() time.Time { return at }

	return &movementFixture{db: db, svc: svc, door: door}
}

func (f *movementFixture) recordGrant(t *testing.T, when time.Time) {
	t.Helper()
	row := models.AccessLog{
		DoorID:     f.door.ID,
		AccessType: models.AccessTypeAuthorized,
		Status:     models.AccessStatusSuccess,
		AccessedAt: when,
	}
	require.NoError(t, f.db.Create(&row).Error)
}

func TestReportMovementInsideWindow(t *testing.T) {
	at := time.Date(2025, 6, 2, 10, 0, 30, 0, time.UTC)
	f := newMovementFixture(t, at)
	f.recordGrant(t, at.Add(-29*time.Second))

	outcome, err := f.svc.Report(context.Background(), ReportMovementInput{DoorID: f.door.ID, SensorID: "pir-1"})
	require.NoError(t, err)
	require.True(t, outcome.MovementLogged)
	require.False(t, outcome.RequiresAction)
	require.False(t, outcome.AlertCreated)
	require.Empty(t, outcome.AlertID)

	var movement models.MovementDetection
	require.NoError(t, f.db.First(&movement, "id = ?", outcome.MovementID).Error)
	require.True(t, movement.HasRecentAuthorization)
	require.NotNil(t, movement.UnauthorizedDuration)
	require.EqualValues(t, 29, *movement.UnauthorizedDuration)
	require.Equal(t, "pir-1", movement.SensorID)

	var alerts int64
	require.NoError(t, f.db.Model(&models.Alert{}).Count(&alerts).Error)
	require.Zero(t, alerts)
}

func TestReportMovementOutsideWindowRaisesAlert(t *testing.T) {
	at := time.Date(2025, 6, 2, 10, 0, 31, 0, time.UTC)
	f := newMovementFixture(t, at)
	f.recordGrant(t, at.Add(-31*time.Second))

	outcome, err := f.svc.Report(context.Background(), ReportMovementInput{DoorID: f.door.ID})
	require.NoError(t, err)
	require.True(t, outcome.RequiresAction)
	require.True(t, outcome.AlertCreated)
	require.NotEmpty(t, outcome.AlertID)

	var movement models.MovementDetection
	require.NoError(t, f.db.First(&movement, "id = ?", outcome.MovementID).Error)
	require.False(t, movement.HasRecentAuthorization)
	require.NotNil(t, movement.UnauthorizedDuration)
	require.EqualValues(t, 31, *movement.UnauthorizedDuration)

	var alert models.Alert
	require.NoError(t, f.db.First(&alert, "id = ?", outcome.AlertID).Error)
	require.Equal(t, models.AlertTypeUnauthorizedMovement, alert.AlertType)
	require.Equal(t, f.door.ID, alert.DoorID)
	require.Equal(t, outcome.MovementID, *alert.MovementDetectionID)
	require.Contains(t, alert.Description, "Lab")
	require.Contains(t, alert.Description, "Floor 2")
	require.False(t, alert.IsAcknowledged)
	require.True(t, alert.TriggeredAt.Equal(at))
}

func TestReportMovementAlertMetadata(t *testing.T) {
	at := time.Date(2025, 6, 2, 10, 5, 0, 0, time.UTC)
	f := newMovementFixture(t, at)
	f.recordGrant(t, at.Add(-5*time.Minute))

	outcome, err := f.svc.Report(context.Background(), ReportMovementInput{DoorID: f.door.ID, SensorID: "pir-7"})
	require.NoError(t, err)
	require.True(t, outcome.AlertCreated)

	var alert models.Alert
	require.NoError(t, f.db.First(&alert, "id = ?", outcome.AlertID).Error)

	var meta struct {
		SensorID             string `json:"sensor_id"`
		UnauthorizedDuration *int64 `json:"unauthorized_duration"`
		WindowSeconds        int64  `json:"window_seconds"`
	}
	require.NoError(t, json.Unmarshal(alert.Metadata, &meta))
	require.Equal(t, "pir-7", meta.SensorID)
	require.NotNil(t, meta.UnauthorizedDuration)
	require.EqualValues(t, 300, *meta.UnauthorizedDuration)
	require.EqualValues(t, 30, meta.WindowSeconds)
}

func TestReportMovementAlertMetadataWithoutHistory(t *testing.T) {
	at := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	f := newMovementFixture(t, at)

	outcome, err := f.svc.Report(context.Background(), ReportMovementInput{DoorID: f.door.ID})
	require.NoError(t, err)

	var alert models.Alert
	require.NoError(t, f.db.First(&alert, "id = ?", outcome.AlertID).Error)

	var meta map[string]any
	require.NoError(t, json.Unmarshal(alert.Metadata, &meta))
	require.Nil(t, meta["unauthorized_duration"])
}

func TestReportMovementWindowBoundaryInclusive(t *testing.T) {
	at := time.Date(2025, 6, 2, 10, 0, 30, 0, time.UTC)
	f := newMovementFixture(t, at)
	// A grant exactly at the window edge still authorizes.
	f.recordGrant(t, at.Add(-30*time.Second))

	outcome, err := f.svc.Report(context.Background(), ReportMovementInput{DoorID: f.door.ID})
	require.NoError(t, err)
	require.False(t, outcome.RequiresAction)
}

func TestReportMovementNoHistory(t *testing.T) {
	at := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	f := newMovementFixture(t, at)

	outcome, err := f.svc.Report(context.Background(), ReportMovementInput{DoorID: f.door.ID})
	require.NoError(t, err)
	require.True(t, outcome.RequiresAction)
	require.True(t, outcome.AlertCreated)

	var movement models.MovementDetection
	require.NoError(t, f.db.First(&movement, "id = ?", outcome.MovementID).Error)
	require.False(t, movement.HasRecentAuthorization)
	require.Nil(t, movement.UnauthorizedDuration)
}

func TestReportMovementDurationOutlivesWindow(t *testing.T) {
	// The duration is computed from the newest grant even when that grant
	// is far outside the window.
	at := time.Date(2025, 6, 2, 10, 10, 0, 0, time.UTC)
	f := newMovementFixture(t, at)
	f.recordGrant(t, at.Add(-10*time.Minute))
	f.recordGrant(t, at.Add(-5*time.Minute))

	outcome, err := f.svc.Report(context.Background(), ReportMovementInput{DoorID: f.door.ID})
	require.NoError(t, err)
	require.True(t, outcome.RequiresAction)

	var movement models.MovementDetection
	require.NoError(t, f.db.First(&movement, "id = ?", outcome.MovementID).Error)
	require.NotNil(t, movement.UnauthorizedDuration)
	require.EqualValues(t, 300, *movement.UnauthorizedDuration)
}

func TestReportMovementNoAlertDeduplication(t *testing.T) {
	at := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	f := newMovementFixture(t, at)

	first, err := f.svc.Report(context.Background(), ReportMovementInput{DoorID: f.door.ID})
	require.NoError(t, err)
	second, err := f.svc.Report(context.Background(), ReportMovementInput{DoorID: f.door.ID})
	require.NoError(t, err)
	require.NotEqual(t, first.AlertID, second.AlertID)

	var alerts int64
	require.NoError(t, f.db.Model(&models.Alert{}).Count(&alerts).Error)
	require.EqualValues(t, 2, alerts)
}

func TestReportMovementIgnoresOtherDoors(t *testing.T) {
	at := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	f := newMovementFixture(t, at)

	other := models.Door{Name: "Lobby", Location: "Floor 1", IsActive: true}
	require.NoError(t, f.db.Create(&other).Error)
	require.NoError(t, f.db.Create(&models.AccessLog{
		DoorID:     other.ID,
		AccessType: models.AccessTypeAuthorized,
		Status:     models.AccessStatusSuccess,
		AccessedAt: at.Add(-5 * time.Second),
	}).Error)

	outcome, err := f.svc.Report(context.Background(), ReportMovementInput{DoorID: f.door.ID})
	require.NoError(t, err)
	require.True(t, outcome.RequiresAction)
}

func TestReportMovementUnknownDoor(t *testing.T) {
	at := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	f := newMovementFixture(t, at)

	_, err := f.svc.Report(context.Background(), ReportMovementInput{DoorID: "01ARZ3NDEKTSV4RRFFQ69G5FAV"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.StatusCode)

	var movements int64
	require.NoError(t, f.db.Model(&models.MovementDetection{}).Count(&movements).Error)
	require.Zero(t, movements)
}

func TestMovementStatistics(t *testing.T) {
	at := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
	f := newMovementFixture(t, at)

	record := func(when time.Time, authorized bool) {
		row := models.MovementDetection{
			DoorID:                 f.door.ID,
			HasRecentAuthorization: authorized,
			DetectedAt:             when,
		}
		require.NoError(t, f.db.Create(&row).Error)
	}
	record(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), true)
	record(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC), false)
	record(time.Date(2025, 6, 3, 11, 0, 0, 0, time.UTC), false)

	stats, err := f.svc.Statistics(context.Background(), nil, nil)
	require.NoError(t, err)
	require.EqualValues(t, 3, stats.TotalMovements)
	require.EqualValues(t, 1, stats.AuthorizedMovements)
	require.EqualValues(t, 2, stats.UnauthorizedMovements)
	require.InDelta(t, 33.33, stats.AuthorizationRate, 0.01)

	require.Len(t, stats.DailyStats, 2)
	require.Equal(t, "2025-06-02", stats.DailyStats[0].Date)
	require.EqualValues(t, 2, stats.DailyStats[0].Total)
	require.EqualValues(t, 1, stats.DailyStats[0].Authorized)

	require.Len(t, stats.DoorStats, 1)
	require.Equal(t, f.door.ID, stats.DoorStats[0].DoorID)
	require.Equal(t, "Lab", stats.DoorStats[0].DoorName)
	require.EqualValues(t, 3, stats.DoorStats[0].Total)
}

func TestMovementListFilters(t *testing.T) {
	at := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	f := newMovementFixture(t, at)

	authorized := true
	require.NoError(t, f.db.Create(&models.MovementDetection{DoorID: f.door.ID, HasRecentAuthorization: true, DetectedAt: at}).Error)
	require.NoError(t, f.db.Create(&models.MovementDetection{DoorID: f.door.ID, HasRecentAuthorization: false, DetectedAt: at.Add(time.Minute)}).Error)

	page, err := f.svc.List(context.Background(), ListMovementsInput{DoorID: f.door.ID, HasRecentAuthorization: &authorized})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	require.True(t, page.Movements[0].HasRecentAuthorization)
}
