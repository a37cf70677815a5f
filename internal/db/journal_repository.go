package db

import (
	"github.com/terraincognita07/cyclecare/internal/models"
	"gorm.io/gorm"
)

type JournalRepository struct {
	database *gorm.DB
}

func NewJournalRepository(database *gorm.DB) *JournalRepository {
	return &JournalRepository{database: database}
}

func (repo *JournalRepository) ListByUser(userID uint) ([]models.JournalEntry, error) {
	entries := make([]models.JournalEntry, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *JournalRepository) FindByUserAndID(userID uint, entryID uint) (models.JournalEntry, bool, error) {
	var entry models.JournalEntry
	result := repo.database.Where("user_id = ? AND id = ?", userID, entryID).Limit(1).Find(&entry)
	if result.Error != nil {
		return models.JournalEntry{}, false, result.Error
	}
	return entry, result.RowsAffected > 0, nil
}

func (repo *JournalRepository) Create(entry *models.JournalEntry) error {
	return repo.database.Create(entry).Error
}

func (repo *JournalRepository) Save(entry *models.JournalEntry) error {
	return repo.database.Save(entry).Error
}

func (repo *JournalRepository) DeleteByUserAndID(userID uint, entryID uint) (bool, error) {
	result := repo.database.Where("user_id = ? AND id = ?", userID, entryID).Delete(&models.JournalEntry{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
