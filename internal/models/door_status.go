package models

import "time"

// Door status values.
const (
	DoorStatusOpen     = "open"
	DoorStatusClosed   = "closed"
	DoorStatusLocked   = "locked"
	DoorStatusUnlocked = "unlocked"
	DoorStatusError    = "error"
)

// Methods by which a door status change was initiated.
const (
	ChangeMethodAutomatic = "automatic"
	ChangeMethodManual    = "manual"
	ChangeMethodScheduled = "scheduled"
	ChangeMethodEmergency = "emergency"
)

// ValidDoorStatus reports whether s is a known door status value.
func ValidDoorStatus(s string) bool {
	switch s {
	case DoorStatusOpen, DoorStatusClosed, DoorStatusLocked, DoorStatusUnlocked, DoorStatusError:
		return true
	}
	return false
}

// ValidChangeMethod reports whether m is a known status change method.
func ValidChangeMethod(m string) bool {
	switch m {
	case ChangeMethodAutomatic, ChangeMethodManual, ChangeMethodScheduled, ChangeMethodEmergency:
		return true
	}
	return false
}

// DoorStatus is one row of the append-only status history for a door. The
// current status of a door is its most recent row.
type DoorStatus struct {
	BaseModel

	DoorID string `gorm:"size:26;not null;index" json:"door_id"`
	Door   *Door  `json:"door,omitempty"`

	Status string `gorm:"type:varchar(16);not null" json:"status"`

	// ChangedBy is nil for automatic transitions reported by hardware.
	ChangedBy     *string `gorm:"size:26" json:"changed_by"`
	ChangedByUser *User   `gorm:"foreignKey:ChangedBy" json:"changed_by_user,omitempty"`

	ChangeMethod    string    `gorm:"type:varchar(16);not null" json:"change_method"`
	StatusChangedAt time.Time `gorm:"not null;index" json:"status_changed_at"`
}
