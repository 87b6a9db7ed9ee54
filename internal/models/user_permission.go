package models

import "time"

// UserPermission grants a user access to a door, optionally restricted to a
// daily wall-clock window. Times are stored as HH:MM:SS strings so window
// checks reduce to lexicographic comparison.
type UserPermission struct {
	BaseModel

	UserID string `gorm:"size:26;not null;index" json:"user_id"`
	User   *User  `json:"user,omitempty"`
	DoorID string `gorm:"size:26;not null;index" json:"door_id"`
	Door   *Door  `json:"door,omitempty"`

	AccessStartTime *string `gorm:"type:varchar(8)" json:"access_start_time"`
	AccessEndTime   *string `gorm:"type:varchar(8)" json:"access_end_time"`
	IsActive        bool    `gorm:"default:true" json:"is_active"`
}

// AllowsAt evaluates the permission's time window against the wall-clock time
// of the given instant. An inactive permission never allows access; a
// permission with no window always does. Bounds are inclusive. A window whose
// start is after its end (crossing midnight) compares as an empty range and
// denies everything.
func (p *UserPermission) AllowsAt(now time.Time) bool {
	if !p.IsActive {
		return false
	}

	if p.AccessStartTime == nil && p.AccessEndTime == nil {
		return true
	}

	start := "00:00:00"
	if p.AccessStartTime != nil {
		start = *p.AccessStartTime
	}
	end := "23:59:59"
	if p.AccessEndTime != nil {
		end = *p.AccessEndTime
	}

	clock := now.Format("15:04:05")
	return clock >= start && clock <= end
}
