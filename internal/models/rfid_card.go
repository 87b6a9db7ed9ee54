package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// RfidCard is an issued RFID credential. A card may be unassigned (no owner).
type RfidCard struct {
	ID         string     `gorm:"primaryKey;size:26" json:"id"`
	CardNumber string     `gorm:"uniqueIndex;not null" json:"card_number"`
	CardName   string     `json:"card_name"`
	UserID     *string    `gorm:"size:26;index" json:"user_id"`
	User       *User      `json:"user,omitempty"`
	IsActive   bool       `gorm:"default:true" json:"is_active"`
	IssuedAt   time.Time  `json:"issued_at"`
	ExpiresAt  *time.Time `json:"expires_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate ensures a ULID is present before persisting.
func (c *RfidCard) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = ulid.Make().String()
	}
	return nil
}

// IsExpired reports whether the card expiry has passed at the given instant.
// Expiry is computed at read time, never stored.
func (c *RfidCard) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// IsValid reports whether the card is active and unexpired at the given instant.
func (c *RfidCard) IsValid(now time.Time) bool {
	return c.IsActive && !c.IsExpired(now)
}
