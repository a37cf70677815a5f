package db

import (
	"github.com/terraincognita07/cyclecare/internal/models"
	"gorm.io/gorm"
)

type SettingsRepository struct {
	database *gorm.DB
}

func NewSettingsRepository(database *gorm.DB) *SettingsRepository {
	return &SettingsRepository{database: database}
}

func (repo *SettingsRepository) FindByUserID(userID uint) (models.UserSettings, bool, error) {
	var settings models.UserSettings
	result := repo.database.Where("user_id = ?", userID).Limit(1).Find(&settings)
	if result.Error != nil {
		return models.UserSettings{}, false, result.Error
	}
	return settings, result.RowsAffected > 0, nil
}

func (repo *SettingsRepository) Save(settings *models.UserSettings) error {
	return repo.database.Save(settings).Error
}

// ListNotificationRecipients returns settings rows of users who opted into reminders.
func (repo *SettingsRepository) ListNotificationRecipients() ([]models.UserSettings, error) {
	recipients := make([]models.UserSettings, 0)
	if err := repo.database.
		Where("notifications_enabled = ?", true).
		Order("user_id ASC").
		Find(&recipients).Error; err != nil {
		return nil, err
	}
	return recipients, nil
}
