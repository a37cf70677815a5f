package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/cyclecare/internal/models"
)

var (
	ErrCycleNotFound         = errors.New("cycle not found")
	ErrCycleStartRequired    = errors.New("cycle start date is required")
	ErrCycleEndBeforeStart   = errors.New("cycle end date is before start date")
	ErrCycleLengthOutOfRange = errors.New("cycle length is out of range")
)

type CycleRepository interface {
	ListByUser(userID uint) ([]models.Cycle, error)
	FindByUserAndID(userID uint, cycleID uint) (models.Cycle, bool, error)
	FindActive(userID uint) (models.Cycle, bool, error)
	FindLatest(userID uint) (models.Cycle, bool, error)
	StartCycle(next *models.Cycle, closePrevious func(previous *models.Cycle)) error
	Save(cycle *models.Cycle) error
	DeleteByUserAndID(userID uint, cycleID uint) (bool, error)
}

type CycleInput struct {
	StartDate time.Time
	EndDate   *time.Time
	Length    *int
}

// CyclePatch updates only the fields that are set.
type CyclePatch struct {
	StartDate *time.Time
	EndDate   *time.Time
	Length    *int
	ClearEnd  bool
}

type CycleService struct {
	cycles CycleRepository
}

func NewCycleService(cycles CycleRepository) *CycleService {
	return &CycleService{cycles: cycles}
}

func (service *CycleService) ListCycles(userID uint) ([]models.Cycle, error) {
	cycles, err := service.cycles.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}
	return cycles, nil
}

func (service *CycleService) ActiveCycle(userID uint) (models.Cycle, bool, error) {
	cycle, found, err := service.cycles.FindActive(userID)
	if err != nil {
		return models.Cycle{}, false, fmt.Errorf("load active cycle: %w", err)
	}
	return cycle, found, nil
}

// StartCycle records a new period start. The previously active cycle is
// deactivated and, when its length is unknown, closed at the new start.
func (service *CycleService) StartCycle(userID uint, input CycleInput) (models.Cycle, error) {
	start := calendarDayIn(input.StartDate, time.UTC)
	end := normalizeOptionalDay(input.EndDate)
	if err := validateCycleFields(start, end, input.Length); err != nil {
		return models.Cycle{}, err
	}

	next := models.Cycle{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Length:    copyOptionalInt(input.Length),
	}
	err := service.cycles.StartCycle(&next, func(previous *models.Cycle) {
		if previous.Length != nil {
			return
		}
		if days := calendarDaysBetween(previous.StartDate, start); days >= models.MinCycleLength && days <= models.MaxCycleLength {
			previous.Length = &days
		}
	})
	if err != nil {
		return models.Cycle{}, fmt.Errorf("start cycle: %w", err)
	}
	return next, nil
}

func (service *CycleService) UpdateCycle(userID uint, cycleID uint, patch CyclePatch) (models.Cycle, error) {
	cycle, found, err := service.cycles.FindByUserAndID(userID, cycleID)
	if err != nil {
		return models.Cycle{}, fmt.Errorf("load cycle: %w", err)
	}
	if !found {
		return models.Cycle{}, ErrCycleNotFound
	}

	if patch.StartDate != nil {
		cycle.StartDate = calendarDayIn(*patch.StartDate, time.UTC)
	}
	if patch.ClearEnd {
		cycle.EndDate = nil
	} else if patch.EndDate != nil {
		cycle.EndDate = normalizeOptionalDay(patch.EndDate)
	}
	if patch.Length != nil {
		cycle.Length = copyOptionalInt(patch.Length)
	}
	if err := validateCycleFields(cycle.StartDate, cycle.EndDate, cycle.Length); err != nil {
		return models.Cycle{}, err
	}

	if err := service.cycles.Save(&cycle); err != nil {
		return models.Cycle{}, fmt.Errorf("save cycle: %w", err)
	}
	return cycle, nil
}

func (service *CycleService) DeleteCycle(userID uint, cycleID uint) error {
	deleted, err := service.cycles.DeleteByUserAndID(userID, cycleID)
	if err != nil {
		return fmt.Errorf("delete cycle: %w", err)
	}
	if !deleted {
		return ErrCycleNotFound
	}
	return nil
}

// Prediction projects from the active cycle, or the most recent one when none
// is active. found is false for users without any cycle.
func (service *CycleService) Prediction(userID uint, cycleLength int, now time.Time) (CyclePrediction, bool, error) {
	anchor, found, err := service.cycles.FindActive(userID)
	if err != nil {
		return CyclePrediction{}, false, fmt.Errorf("load active cycle: %w", err)
	}
	if !found {
		anchor, found, err = service.cycles.FindLatest(userID)
		if err != nil {
			return CyclePrediction{}, false, fmt.Errorf("load latest cycle: %w", err)
		}
	}
	if !found {
		return CyclePrediction{}, false, nil
	}

	prediction, err := ComputePredictions(anchor.StartDate, EffectiveCycleLength(cycleLength), now)
	if err != nil {
		return CyclePrediction{}, false, err
	}
	return prediction, true, nil
}

func validateCycleFields(start time.Time, end *time.Time, length *int) error {
	if start.IsZero() {
		return ErrCycleStartRequired
	}
	if end != nil && calendarDaysBetween(start, *end) < 0 {
		return ErrCycleEndBeforeStart
	}
	if length != nil && (*length < models.MinCycleLength || *length > models.MaxCycleLength) {
		return ErrCycleLengthOutOfRange
	}
	return nil
}

func normalizeOptionalDay(value *time.Time) *time.Time {
	if value == nil || value.IsZero() {
		return nil
	}
	day := calendarDayIn(*value, time.UTC)
	return &day
}

func copyOptionalInt(value *int) *int {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
