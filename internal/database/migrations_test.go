package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aryasetia/doorguard/internal/models"
)

func TestAutoMigrateAndSeed(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)

	require.NoError(t, AutoMigrateAndSeed(db))

	var admin models.User
	require.NoError(t, db.Where("role = ?", models.RoleAdmin).First(&admin).Error)
	require.True(t, admin.IsActive)
	require.Len(t, admin.ID, 26)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("changeme")))

	var door models.Door
	require.NoError(t, db.First(&door).Error)
	require.Equal(t, "Main Entrance", door.Name)
	require.True(t, door.IsActive)

	// Seeding twice must not duplicate the admin account or the door.
	require.NoError(t, SeedData(db))
	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error)
	require.EqualValues(t, 1, count)
	require.NoError(t, db.Model(&models.Door{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
}
