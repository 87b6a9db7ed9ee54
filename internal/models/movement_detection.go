package models

import "time"

// MovementDetection records a single PIR sensor report and the correlation
// outcome computed at report time. Rows are immutable once written.
type MovementDetection struct {
	BaseModel

	DoorID string `gorm:"size:26;not null;index" json:"door_id"`
	Door   *Door  `json:"door,omitempty"`

	SensorID string `gorm:"type:varchar(64)" json:"sensor_id"`

	// HasRecentAuthorization is true when an authorized/success access was
	// logged for the door within the authorization window before detection.
	HasRecentAuthorization bool `gorm:"index" json:"has_recent_authorization"`

	// UnauthorizedDuration is the whole-second gap since the most recent
	// authorized access regardless of window; nil when the door has no
	// authorized access history at all.
	UnauthorizedDuration *int64 `json:"unauthorized_duration"`

	DetectedAt time.Time `gorm:"not null;index" json:"detected_at"`

	Alert *Alert `gorm:"foreignKey:MovementDetectionID" json:"alert,omitempty"`
}
