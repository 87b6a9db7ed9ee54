package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aryasetia/doorguard/internal/database/testutil"
	"github.com/aryasetia/doorguard/internal/models"
	apperrors "github.com/aryasetia/doorguard/pkg/errors"
)

func seedUserAndDoor(t *testing.T, db *gorm.DB) (models.User, models.Door) {
	t.Helper()
	user := models.User{Name: "Alice", Email: "alice@example.com", Password: "hash", Role: models.RoleUser, IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	door := models.Door{Name: "Archive", Location: "Floor 3", IsActive: true}
	require.NoError(t, db.Create(&door).Error)
	return user, door
}

func TestCreatePermission(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	user, door := seedUserAndDoor(t, db)

	svc, err := NewPermissionService(db)
	require.NoError(t, err)

	perm, err := svc.Create(context.Background(), CreatePermissionInput{
		UserID:          user.ID,
		DoorID:          door.ID,
		AccessStartTime: "09:00",
		AccessEndTime:   "17:30:00",
	})
	require.NoError(t, err)
	require.True(t, perm.IsActive)
	require.Equal(t, "09:00:00", *perm.AccessStartTime)
	require.Equal(t, "17:30:00", *perm.AccessEndTime)
}

func TestCreatePermissionDuplicateConflicts(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	user, door := seedUserAndDoor(t, db)

	svc, err := NewPermissionService(db)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreatePermissionInput{UserID: user.ID, DoorID: door.ID})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreatePermissionInput{UserID: user.ID, DoorID: door.ID})
	require.True(t, errors.Is(err, apperrors.ErrPermissionExists))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 409, appErr.StatusCode)
}

func TestCreatePermissionValidation(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	user, door := seedUserAndDoor(t, db)

	svc, err := NewPermissionService(db)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreatePermissionInput{UserID: "missing", DoorID: door.ID})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.StatusCode)

	_, err = svc.Create(context.Background(), CreatePermissionInput{UserID: user.ID, DoorID: door.ID, AccessStartTime: "25:00"})
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 400, appErr.StatusCode)
}

func TestUpdatePermissionWindow(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	user, door := seedUserAndDoor(t, db)

	svc, err := NewPermissionService(db)
	require.NoError(t, err)

	perm, err := svc.Create(context.Background(), CreatePermissionInput{
		UserID:          user.ID,
		DoorID:          door.ID,
		AccessStartTime: "09:00:00",
		AccessEndTime:   "17:00:00",
	})
	require.NoError(t, err)

	cleared := ""
	inactive := false
	updated, err := svc.Update(context.Background(), perm.ID, UpdatePermissionInput{
		AccessStartTime: &cleared,
		IsActive:        &inactive,
	})
	require.NoError(t, err)
	require.Nil(t, updated.AccessStartTime)
	require.Equal(t, "17:00:00", *updated.AccessEndTime)
	require.False(t, updated.IsActive)
}

func TestDeletePermission(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	user, door := seedUserAndDoor(t, db)

	svc, err := NewPermissionService(db)
	require.NoError(t, err)

	perm, err := svc.Create(context.Background(), CreatePermissionInput{UserID: user.ID, DoorID: door.ID})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), perm.ID))

	err = svc.Delete(context.Background(), perm.ID)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.StatusCode)
}

func TestPermissionProjections(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	user, door := seedUserAndDoor(t, db)

	other := models.User{Name: "Bob", Email: "bob@example.com", Password: "hash", Role: models.RoleUser, IsActive: true}
	require.NoError(t, db.Create(&other).Error)

	svc, err := NewPermissionService(db)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreatePermissionInput{UserID: user.ID, DoorID: door.ID})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreatePermissionInput{UserID: other.ID, DoorID: door.ID})
	require.NoError(t, err)

	doorUsers, err := svc.DoorUsers(context.Background(), door.ID)
	require.NoError(t, err)
	require.Len(t, doorUsers, 2)
	require.NotNil(t, doorUsers[0].User)

	userDoors, err := svc.UserDoors(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, userDoors, 1)
	require.NotNil(t, userDoors[0].Door)
	require.Equal(t, "Archive", userDoors[0].Door.Name)
}
