package maintenance

import (
	"fmt"
	"time"

	"gachaactu/backend/internal/cache"
	"gachaactu/backend/internal/database"
	"gachaactu/backend/internal/models"

	"gorm.io/gorm/clause"
)

const (
	cacheKey = "maintenance:settings"
	cacheTTL = 30 * time.Second
)

// DefaultMessage is shown when the settings carry no message.
const DefaultMessage = "GachaActu is undergoing maintenance. We'll be back shortly."

// Load returns the maintenance settings, creating the disabled row on first use.
func Load() (models.MaintenanceSettings, error) {
	if entry, ok := cache.Default.Get(cacheKey); ok {
		if settings, ok := entry.Value.(models.MaintenanceSettings); ok {
			return settings, nil
		}
	}

	settings := models.MaintenanceSettings{ID: models.MaintenanceSettingsID}
	if err := database.DB.FirstOrCreate(&settings, models.MaintenanceSettings{ID: models.MaintenanceSettingsID}).Error; err != nil {
		return models.MaintenanceSettings{}, fmt.Errorf("load maintenance settings: %w", err)
	}

	cache.Default.Set(cacheKey, cache.Entry{Value: settings}, cacheTTL, cache.TagMaintenance)
	return settings, nil
}

// Save stores the new state and revalidates everything cached under the
// maintenance tag.
func Save(enabled bool, message string, userID uint) (models.MaintenanceSettings, error) {
	settings := models.MaintenanceSettings{
		ID:        models.MaintenanceSettingsID,
		Enabled:   enabled,
		Message:   message,
		UpdatedAt: time.Now(),
	}
	if userID != 0 {
		settings.UpdatedByID = &userID
	}

	err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"enabled", "message", "updated_by_id", "updated_at"}),
	}).Create(&settings).Error
	if err != nil {
		return models.MaintenanceSettings{}, fmt.Errorf("save maintenance settings: %w", err)
	}

	cache.Default.Revalidate(cache.TagMaintenance)
	return settings, nil
}

// NoticeMessage returns the message to display for settings.
func NoticeMessage(settings models.MaintenanceSettings) string {
	if settings.Message == "" {
		return DefaultMessage
	}
	return settings.Message
}
