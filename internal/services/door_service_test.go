package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aryasetia/doorguard/internal/database/testutil"
	"github.com/aryasetia/doorguard/internal/models"
	apperrors "github.com/aryasetia/doorguard/pkg/errors"
)

func TestDoorDelete(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewDoorService(db)
	require.NoError(t, err)

	door := models.Door{Name: "Server Room", Location: "Basement", IsActive: true}
	require.NoError(t, db.Create(&door).Error)

	require.NoError(t, svc.Delete(context.Background(), door.ID))

	_, err = svc.Get(context.Background(), door.ID)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.StatusCode)

	// A second delete finds nothing.
	err = svc.Delete(context.Background(), door.ID)
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.StatusCode)
}

func TestDoorDeleteKeepsStatusHistory(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewDoorService(db)
	require.NoError(t, err)

	door := models.Door{Name: "Loading Dock", Location: "Rear", IsActive: true}
	require.NoError(t, db.Create(&door).Error)

	_, err = svc.ChangeStatus(context.Background(), door.ID, ChangeDoorStatusInput{Status: "locked"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), door.ID))

	var history int64
	require.NoError(t, db.Model(&models.DoorStatus{}).Where("door_id = ?", door.ID).Count(&history).Error)
	require.EqualValues(t, 1, history)
}
