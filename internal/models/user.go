package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// Roles assignable to users. The admin role is the single capability gate for
// management endpoints and alert notifications.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User describes a dashboard user who may own RFID cards and door permissions.
type User struct {
	ID       string `gorm:"primaryKey;size:26" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	Role     string `gorm:"type:varchar(32);default:'user';index" json:"role"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	RfidCards   []RfidCard       `gorm:"foreignKey:UserID" json:"rfid_cards,omitempty"`
	Permissions []UserPermission `gorm:"foreignKey:UserID" json:"permissions,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate ensures a ULID is present before persisting.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = ulid.Make().String()
	}
	return nil
}

// IsAdmin reports whether the user holds the admin capability.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
