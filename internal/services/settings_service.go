package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/cyclecare/internal/models"
)

const (
	minReminderDays = 1
	maxReminderDays = 14
	minWaterGoalML  = 500
	maxWaterGoalML  = 10000
)

var (
	ErrSettingsReminderDaysOutOfRange = errors.New("settings reminder days out of range")
	ErrSettingsWaterGoalOutOfRange    = errors.New("settings water goal out of range")
	ErrSettingsCycleLengthOutOfRange  = errors.New("settings cycle length out of range")
	ErrSettingsThemeInvalid           = errors.New("settings theme invalid")
	ErrSettingsTelegramChatInvalid    = errors.New("settings telegram chat invalid")
)

var settingsThemes = []string{models.DefaultTheme, "light", "dark", "system"}

type SettingsRepository interface {
	FindByUserID(userID uint) (models.UserSettings, bool, error)
	Save(settings *models.UserSettings) error
}

// SettingsUpdate changes only the fields that are set.
type SettingsUpdate struct {
	NotificationsEnabled *bool
	ReminderDays         *int
	WaterGoal            *int
	Theme                *string
	CycleLength          *int
	TelegramChatID       *int64
}

type SettingsService struct {
	settings SettingsRepository
}

func NewSettingsService(settings SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

// LoadSettings returns the stored settings, or unsaved defaults for users
// created before settings rows existed.
func (service *SettingsService) LoadSettings(userID uint) (models.UserSettings, error) {
	settings, found, err := service.settings.FindByUserID(userID)
	if err != nil {
		return models.UserSettings{}, fmt.Errorf("load settings: %w", err)
	}
	if !found {
		return models.DefaultUserSettings(userID), nil
	}
	return settings, nil
}

func (service *SettingsService) UpdateSettings(userID uint, update SettingsUpdate) (models.UserSettings, error) {
	if err := validateSettingsUpdate(update); err != nil {
		return models.UserSettings{}, err
	}

	settings, err := service.LoadSettings(userID)
	if err != nil {
		return models.UserSettings{}, err
	}

	if update.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *update.NotificationsEnabled
	}
	if update.ReminderDays != nil {
		settings.ReminderDays = *update.ReminderDays
	}
	if update.WaterGoal != nil {
		settings.WaterGoal = *update.WaterGoal
	}
	if update.Theme != nil {
		settings.Theme = strings.ToLower(strings.TrimSpace(*update.Theme))
	}
	if update.CycleLength != nil {
		settings.CycleLength = *update.CycleLength
	}
	if update.TelegramChatID != nil {
		settings.TelegramChatID = *update.TelegramChatID
	}

	if err := service.settings.Save(&settings); err != nil {
		return models.UserSettings{}, fmt.Errorf("save settings: %w", err)
	}
	return settings, nil
}

func validateSettingsUpdate(update SettingsUpdate) error {
	if update.ReminderDays != nil && (*update.ReminderDays < minReminderDays || *update.ReminderDays > maxReminderDays) {
		return ErrSettingsReminderDaysOutOfRange
	}
	if update.WaterGoal != nil && (*update.WaterGoal < minWaterGoalML || *update.WaterGoal > maxWaterGoalML) {
		return ErrSettingsWaterGoalOutOfRange
	}
	if update.CycleLength != nil && (*update.CycleLength < models.MinCycleLength || *update.CycleLength > models.MaxCycleLength) {
		return ErrSettingsCycleLengthOutOfRange
	}
	if update.Theme != nil && !isKnownTheme(*update.Theme) {
		return ErrSettingsThemeInvalid
	}
	if update.TelegramChatID != nil && *update.TelegramChatID < 0 {
		return ErrSettingsTelegramChatInvalid
	}
	return nil
}

func isKnownTheme(raw string) bool {
	theme := strings.ToLower(strings.TrimSpace(raw))
	for _, known := range settingsThemes {
		if theme == known {
			return true
		}
	}
	return false
}
