package models

import (
	"time"

	"gorm.io/datatypes"
)

// Alert kinds raised by the movement correlator.
const (
	AlertTypeUnauthorizedMovement = "unauthorized_movement"
)

// Alert is a persisted security incident awaiting human acknowledgment.
// Acknowledgment is a one-way transition; an acknowledged alert is terminal.
type Alert struct {
	BaseModel

	DoorID string `gorm:"size:26;not null;index" json:"door_id"`
	Door   *Door  `json:"door,omitempty"`

	MovementDetectionID *string            `gorm:"size:26;index" json:"movement_detection_id"`
	MovementDetection   *MovementDetection `json:"movement_detection,omitempty"`

	AlertType   string         `gorm:"type:varchar(32);not null;index" json:"alert_type"`
	Description string         `gorm:"type:text" json:"description"`
	Metadata    datatypes.JSON `json:"metadata"`

	IsAcknowledged bool       `gorm:"default:false;index" json:"is_acknowledged"`
	AcknowledgedBy *string    `gorm:"size:26" json:"acknowledged_by"`
	AcknowledgedAt *time.Time `json:"acknowledged_at"`

	AcknowledgedByUser *User `gorm:"foreignKey:AcknowledgedBy" json:"acknowledged_by_user,omitempty"`

	TriggeredAt time.Time `gorm:"not null;index" json:"triggered_at"`
}
