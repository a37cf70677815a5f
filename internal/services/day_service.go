package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/cyclecare/internal/models"
)

var (
	ErrDayEntryLoadFailed   = errors.New("load day entry failed")
	ErrDayEntryCreateFailed = errors.New("create day entry failed")
	ErrDayEntryUpdateFailed = errors.New("update day entry failed")
	ErrDeleteDayFailed      = errors.New("delete day failed")
	ErrInvalidDayRange      = errors.New("invalid day range")
)

type DayLogRepository interface {
	ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.DailyLog, error)
	ListRecent(userID uint, limit int) ([]models.DailyLog, error)
	FindByUserAndDayRange(userID uint, dayStart time.Time, dayEnd time.Time) (models.DailyLog, bool, error)
	Create(entry *models.DailyLog) error
	Save(entry *models.DailyLog) error
	DeleteByUserAndDayRange(userID uint, dayStart time.Time, dayEnd time.Time) error
}

type DaySettingsRepository interface {
	FindByUserID(userID uint) (models.UserSettings, bool, error)
}

// WaterUpdate is the outcome of AddWater. GoalReached is true only for the
// serving that crossed the daily goal.
type WaterUpdate struct {
	Log         models.DailyLog `json:"log"`
	Goal        int             `json:"goal"`
	GoalReached bool            `json:"goal_reached"`
}

// DayService stores one log per user per calendar day. Days are keyed by
// their calendar date at UTC midnight, independent of the caller's zone.
type DayService struct {
	logs     DayLogRepository
	settings DaySettingsRepository
}

func NewDayService(logs DayLogRepository, settings DaySettingsRepository) *DayService {
	return &DayService{
		logs:     logs,
		settings: settings,
	}
}

// FetchLogsForRange lists logs between from and to inclusive. Either bound
// may be nil.
func (service *DayService) FetchLogsForRange(userID uint, from *time.Time, to *time.Time) ([]models.DailyLog, error) {
	var fromStart *time.Time
	var toEnd *time.Time
	if from != nil {
		start, _ := storedDayRange(*from)
		fromStart = &start
	}
	if to != nil {
		_, end := storedDayRange(*to)
		toEnd = &end
	}
	if fromStart != nil && toEnd != nil && !fromStart.Before(*toEnd) {
		return nil, ErrInvalidDayRange
	}
	return service.logs.ListByUserRange(userID, fromStart, toEnd)
}

func (service *DayService) RecentLogs(userID uint, limit int) ([]models.DailyLog, error) {
	return service.logs.ListRecent(userID, limit)
}

// FetchLogByDate returns the stored log or an empty unsaved one for the day.
func (service *DayService) FetchLogByDate(userID uint, day time.Time) (models.DailyLog, error) {
	dayStart, dayEnd := storedDayRange(day)
	entry, found, err := service.logs.FindByUserAndDayRange(userID, dayStart, dayEnd)
	if err != nil {
		return models.DailyLog{}, err
	}
	if !found {
		return models.DailyLog{
			UserID:   userID,
			Date:     dayStart,
			Symptoms: []string{},
		}, nil
	}
	return entry, nil
}

func (service *DayService) UpsertDayEntry(userID uint, day time.Time, payload DayEntryInput) (models.DailyLog, error) {
	dayStart, dayEnd := storedDayRange(day)
	entry, found, err := service.logs.FindByUserAndDayRange(userID, dayStart, dayEnd)
	if err != nil {
		return models.DailyLog{}, ErrDayEntryLoadFailed
	}

	if found {
		applyDayEntryInput(&entry, payload)
		if err := service.logs.Save(&entry); err != nil {
			return models.DailyLog{}, ErrDayEntryUpdateFailed
		}
		return entry, nil
	}

	entry = models.DailyLog{UserID: userID, Date: dayStart}
	applyDayEntryInput(&entry, payload)
	if err := service.logs.Create(&entry); err != nil {
		return models.DailyLog{}, ErrDayEntryCreateFailed
	}
	return entry, nil
}

func (service *DayService) DeleteDay(userID uint, day time.Time) error {
	dayStart, dayEnd := storedDayRange(day)
	if err := service.logs.DeleteByUserAndDayRange(userID, dayStart, dayEnd); err != nil {
		return ErrDeleteDayFailed
	}
	return nil
}

// AddWater adds a serving in millilitres to the day and reports whether this
// serving crossed the user's daily goal.
func (service *DayService) AddWater(userID uint, day time.Time, amount int) (WaterUpdate, error) {
	if amount <= 0 || amount > MaxWaterServingML {
		return WaterUpdate{}, ErrInvalidWaterServing
	}

	goal, err := service.waterGoal(userID)
	if err != nil {
		return WaterUpdate{}, err
	}

	dayStart, dayEnd := storedDayRange(day)
	entry, found, err := service.logs.FindByUserAndDayRange(userID, dayStart, dayEnd)
	if err != nil {
		return WaterUpdate{}, ErrDayEntryLoadFailed
	}

	before := entry.WaterIntake
	after := before + amount
	if after > MaxWaterIntakeML {
		after = MaxWaterIntakeML
	}

	if found {
		entry.WaterIntake = after
		if err := service.logs.Save(&entry); err != nil {
			return WaterUpdate{}, ErrDayEntryUpdateFailed
		}
	} else {
		entry = models.DailyLog{UserID: userID, Date: dayStart, WaterIntake: after, Symptoms: []string{}}
		if err := service.logs.Create(&entry); err != nil {
			return WaterUpdate{}, ErrDayEntryCreateFailed
		}
	}

	return WaterUpdate{
		Log:         entry,
		Goal:        goal,
		GoalReached: before < goal && after >= goal,
	}, nil
}

func (service *DayService) waterGoal(userID uint) (int, error) {
	if service.settings == nil {
		return models.DefaultWaterGoalML, nil
	}
	settings, found, err := service.settings.FindByUserID(userID)
	if err != nil {
		return 0, fmt.Errorf("load water goal: %w", err)
	}
	if !found || settings.WaterGoal <= 0 {
		return models.DefaultWaterGoalML, nil
	}
	return settings.WaterGoal, nil
}

func applyDayEntryInput(entry *models.DailyLog, payload DayEntryInput) {
	if payload.WaterIntake != nil {
		entry.WaterIntake = *payload.WaterIntake
	}
	entry.Mood = payload.Mood
	entry.Symptoms = payload.Symptoms
	if entry.Symptoms == nil {
		entry.Symptoms = []string{}
	}
	entry.Notes = payload.Notes
}

// storedDayRange maps any instant to the half-open UTC range of its calendar date.
func storedDayRange(day time.Time) (time.Time, time.Time) {
	start := calendarDayIn(day, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
