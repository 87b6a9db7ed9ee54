package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aryasetia/doorguard/internal/database/testutil"
	"github.com/aryasetia/doorguard/internal/models"
	apperrors "github.com/aryasetia/doorguard/pkg/errors"
)

func seedAlert(t *testing.T, db *gorm.DB, triggeredAt time.Time) (models.Door, models.Alert) {
	t.Helper()
	door := models.Door{Name: "Vault", Location: "Basement", IsActive: true}
	require.NoError(t, db.Create(&door).Error)

	alert := models.Alert{
		DoorID:      door.ID,
		AlertType:   models.AlertTypeUnauthorizedMovement,
		Description: "Unauthorized movement detected at door: Vault (Basement)",
		TriggeredAt: triggeredAt,
	}
	require.NoError(t, db.Create(&alert).Error)
	return door, alert
}

func TestAcknowledgeAlert(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	at := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	_, alert := seedAlert(t, db, at.Add(-time.Minute))

	admin := models.User{Name: "Root", Email: "root@example.com", Password: "hash", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, db.Create(&admin).Error)

	svc, err := NewAlertService(db)
	require.NoError(t, err)
	svc.now = func() time.Time { return at }

	acked, err := svc.Acknowledge(context.Background(), alert.ID, admin.ID)
	require.NoError(t, err)
	require.True(t, acked.IsAcknowledged)
	require.Equal(t, admin.ID, *acked.AcknowledgedBy)
	require.True(t, acked.AcknowledgedAt.Equal(at))
	require.NotNil(t, acked.AcknowledgedByUser)
	require.Equal(t, "Root", acked.AcknowledgedByUser.Name)
}

func TestAcknowledgeAlertTwiceConflicts(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	_, alert := seedAlert(t, db, time.Now().UTC())

	admin := models.User{Name: "Root", Email: "root@example.com", Password: "hash", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, db.Create(&admin).Error)

	svc, err := NewAlertService(db)
	require.NoError(t, err)

	_, err = svc.Acknowledge(context.Background(), alert.ID, admin.ID)
	require.NoError(t, err)

	_, err = svc.Acknowledge(context.Background(), alert.ID, admin.ID)
	require.True(t, errors.Is(err, apperrors.ErrAlertAcknowledged))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 422, appErr.StatusCode)
}

func TestAcknowledgeUnknownAlert(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewAlertService(db)
	require.NoError(t, err)

	_, err = svc.Acknowledge(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV", "user")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.StatusCode)
}

func TestListAlertsFilters(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	at := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	door, first := seedAlert(t, db, at)

	second := models.Alert{
		DoorID:      door.ID,
		AlertType:   models.AlertTypeUnauthorizedMovement,
		Description: "second",
		TriggeredAt: at.Add(time.Hour),
	}
	require.NoError(t, db.Create(&second).Error)

	admin := models.User{Name: "Root", Email: "root@example.com", Password: "hash", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, db.Create(&admin).Error)

	svc, err := NewAlertService(db)
	require.NoError(t, err)

	_, err = svc.Acknowledge(context.Background(), first.ID, admin.ID)
	require.NoError(t, err)

	open, err := svc.Unacknowledged(context.Background())
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.Equal(t, second.ID, open[0].ID)

	acked := true
	page, err := svc.List(context.Background(), ListAlertsInput{IsAcknowledged: &acked})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	require.Equal(t, first.ID, page.Alerts[0].ID)

	all, err := svc.List(context.Background(), ListAlertsInput{DoorID: door.ID})
	require.NoError(t, err)
	require.EqualValues(t, 2, all.Total)
	// Newest first.
	require.Equal(t, second.ID, all.Alerts[0].ID)
}
