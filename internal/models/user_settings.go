package models

const (
	DefaultReminderDays = 7
	DefaultWaterGoalML  = 3000
	DefaultTheme        = "pink"
)

type UserSettings struct {
	ID                   uint   `gorm:"primaryKey" json:"id"`
	UserID               uint   `gorm:"not null;uniqueIndex" json:"user_id"`
	NotificationsEnabled bool   `gorm:"not null" json:"notifications_enabled"`
	ReminderDays         int    `gorm:"not null" json:"reminder_days"`
	WaterGoal            int    `gorm:"not null" json:"water_goal"`
	Theme                string `gorm:"not null" json:"theme"`
	CycleLength          int    `gorm:"not null" json:"cycle_length"`
	TelegramChatID       int64  `gorm:"not null" json:"telegram_chat_id"`
}

func DefaultUserSettings(userID uint) UserSettings {
	return UserSettings{
		UserID:               userID,
		NotificationsEnabled: true,
		ReminderDays:         DefaultReminderDays,
		WaterGoal:            DefaultWaterGoalML,
		Theme:                DefaultTheme,
		CycleLength:          DefaultCycleLength,
	}
}

func (UserSettings) TableName() string {
	return "user_settings"
}
