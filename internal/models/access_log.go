package models

import "time"

// Access classifications and outcomes recorded in the ledger.
const (
	AccessTypeAuthorized   = "authorized"
	AccessTypeUnauthorized = "unauthorized"

	AccessStatusSuccess = "success"
	AccessStatusFailed  = "failed"
)

// AccessLog is one row of the append-only access ledger. Rows are written once
// per swipe evaluation and never mutated or deleted; the movement correlator
// treats them as ground truth.
type AccessLog struct {
	BaseModel

	UserID     *string   `gorm:"size:26;index" json:"user_id"`
	User       *User     `json:"user,omitempty"`
	RfidCardID *string   `gorm:"size:26;index" json:"rfid_card_id"`
	RfidCard   *RfidCard `json:"rfid_card,omitempty"`
	DoorID     string    `gorm:"size:26;not null;index" json:"door_id"`
	Door       *Door     `json:"door,omitempty"`

	AccessType string    `gorm:"type:varchar(16);not null;index" json:"access_type"`
	Status     string    `gorm:"type:varchar(16);not null;index" json:"status"`
	AccessedAt time.Time `gorm:"not null;index" json:"accessed_at"`
}
