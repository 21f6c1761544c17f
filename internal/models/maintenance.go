package models

import "time"

// MaintenanceSettingsID is the primary key of the only settings row.
const MaintenanceSettingsID = 1

// MaintenanceSettings is a singleton row toggling maintenance mode.
type MaintenanceSettings struct {
	ID          uint   `gorm:"primaryKey"`
	Enabled     bool   `gorm:"not null;default:false"`
	Message     string `gorm:"size:1000"`
	UpdatedByID *uint
	UpdatedAt   time.Time
}

func (MaintenanceSettings) TableName() string {
	return "maintenance_settings"
}
