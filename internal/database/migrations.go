package database

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/aryasetia/doorguard/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Door{},
		&models.RfidCard{},
		&models.UserPermission{},
		&models.AccessLog{},
		&models.MovementDetection{},
		&models.Alert{},
		&models.DoorStatus{},
	)
}

// SeedData inserts the bootstrap admin account and a sample door so a fresh
// install has something to point a reader at. Both are skipped once present.
func SeedData(db *gorm.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedSampleDoor(db)
}

func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:     "Administrator",
		Email:    "admin@doorguard.local",
		Password: string(hash),
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	return db.Create(&admin).Error
}

func seedSampleDoor(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Door{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	door := models.Door{
		Name:        "Main Entrance",
		Location:    "Ground Floor",
		Description: "Sample door created at first start",
		IsActive:    true,
	}
	return db.Create(&door).Error
}
