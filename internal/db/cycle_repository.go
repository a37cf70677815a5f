package db

import (
	"github.com/terraincognita07/cyclecare/internal/models"
	"gorm.io/gorm"
)

type CycleRepository struct {
	database *gorm.DB
}

func NewCycleRepository(database *gorm.DB) *CycleRepository {
	return &CycleRepository{database: database}
}

func (repo *CycleRepository) ListByUser(userID uint) ([]models.Cycle, error) {
	cycles := make([]models.Cycle, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("start_date ASC, id ASC").
		Find(&cycles).Error; err != nil {
		return nil, err
	}
	return cycles, nil
}

func (repo *CycleRepository) FindByUserAndID(userID uint, cycleID uint) (models.Cycle, bool, error) {
	var cycle models.Cycle
	result := repo.database.Where("user_id = ? AND id = ?", userID, cycleID).Limit(1).Find(&cycle)
	if result.Error != nil {
		return models.Cycle{}, false, result.Error
	}
	return cycle, result.RowsAffected > 0, nil
}

func (repo *CycleRepository) FindActive(userID uint) (models.Cycle, bool, error) {
	var cycle models.Cycle
	result := repo.database.
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("start_date DESC, id DESC").
		Limit(1).
		Find(&cycle)
	if result.Error != nil {
		return models.Cycle{}, false, result.Error
	}
	return cycle, result.RowsAffected > 0, nil
}

func (repo *CycleRepository) FindLatest(userID uint) (models.Cycle, bool, error) {
	var cycle models.Cycle
	result := repo.database.
		Where("user_id = ?", userID).
		Order("start_date DESC, id DESC").
		Limit(1).
		Find(&cycle)
	if result.Error != nil {
		return models.Cycle{}, false, result.Error
	}
	return cycle, result.RowsAffected > 0, nil
}

// StartCycle closes every active cycle of the owner and inserts next as the
// only active one. closePrevious may adjust each closed cycle before it is saved.
func (repo *CycleRepository) StartCycle(next *models.Cycle, closePrevious func(previous *models.Cycle)) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		active := make([]models.Cycle, 0)
		if err := tx.Where("user_id = ? AND is_active = ?", next.UserID, true).Find(&active).Error; err != nil {
			return err
		}

		for index := range active {
			active[index].IsActive = false
			if closePrevious != nil {
				closePrevious(&active[index])
			}
			if err := tx.Save(&active[index]).Error; err != nil {
				return err
			}
		}

		next.IsActive = true
		return tx.Create(next).Error
	})
}

func (repo *CycleRepository) Save(cycle *models.Cycle) error {
	return repo.database.Save(cycle).Error
}

func (repo *CycleRepository) DeleteByUserAndID(userID uint, cycleID uint) (bool, error) {
	result := repo.database.Where("user_id = ? AND id = ?", userID, cycleID).Delete(&models.Cycle{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
