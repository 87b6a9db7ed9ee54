package models

// Door represents a controlled entry point with an RFID reader and PIR sensor.
type Door struct {
	BaseModel

	Name        string `gorm:"not null" json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	AccessLogs         []AccessLog         `gorm:"foreignKey:DoorID" json:"-"`
	MovementDetections []MovementDetection `gorm:"foreignKey:DoorID" json:"-"`
	Alerts             []Alert             `gorm:"foreignKey:DoorID" json:"-"`
	Statuses           []DoorStatus        `gorm:"foreignKey:DoorID" json:"-"`
}
