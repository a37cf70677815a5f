package db

import "gorm.io/gorm"

type Repositories struct {
	Users     *UserRepository
	Settings  *SettingsRepository
	Cycles    *CycleRepository
	DailyLogs *DailyLogRepository
	Journal   *JournalRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(database),
		Settings:  NewSettingsRepository(database),
		Cycles:    NewCycleRepository(database),
		DailyLogs: NewDailyLogRepository(database),
		Journal:   NewJournalRepository(database),
	}
}
