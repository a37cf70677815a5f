package services

import (
	"errors"
	"time"

	"github.com/terraincognita07/cyclecare/internal/models"
)

const (
	lutealPhaseDays         = 14
	fertileDaysBefore       = 5
	fertileDaysAfter        = 1
	predictedPeriodSpanDays = 5
)

var ErrInvalidCycleLength = errors.New("cycle length must be positive")

type CyclePrediction struct {
	NextPeriodDate     time.Time `json:"next_period_date"`
	OvulationDate      time.Time `json:"ovulation_date"`
	FertileWindowStart time.Time `json:"fertile_window_start"`
	FertileWindowEnd   time.Time `json:"fertile_window_end"`
	CurrentCycleDay    int       `json:"current_cycle_day"`
	DaysUntilPeriod    int       `json:"days_until_period"`
}

// ComputePredictions projects the next period from the last known period
// start. All dates are calendar days in now's location. A start date after
// now is treated as day one of the current cycle.
func ComputePredictions(lastPeriodStart time.Time, averageCycleLength int, now time.Time) (CyclePrediction, error) {
	if averageCycleLength <= 0 {
		return CyclePrediction{}, ErrInvalidCycleLength
	}

	location := now.Location()
	start := calendarDayIn(lastPeriodStart, location)
	today := DateAtLocation(now, location)

	daysDiff := calendarDaysBetween(start, today)
	if daysDiff < 0 {
		daysDiff = 0
	}

	nextPeriodDate := start.AddDate(0, 0, averageCycleLength)
	if daysDiff >= averageCycleLength {
		cyclesPassed := daysDiff / averageCycleLength
		nextPeriodDate = start.AddDate(0, 0, (cyclesPassed+1)*averageCycleLength)
	}

	ovulationDate := nextPeriodDate.AddDate(0, 0, -lutealPhaseDays)
	return CyclePrediction{
		NextPeriodDate:     nextPeriodDate,
		OvulationDate:      ovulationDate,
		FertileWindowStart: ovulationDate.AddDate(0, 0, -fertileDaysBefore),
		FertileWindowEnd:   ovulationDate.AddDate(0, 0, fertileDaysAfter),
		CurrentCycleDay:    (daysDiff % averageCycleLength) + 1,
		DaysUntilPeriod:    calendarDaysBetween(today, nextPeriodDate),
	}, nil
}

// EffectiveCycleLength falls back to the default for unset or out-of-range values.
func EffectiveCycleLength(cycleLength int) int {
	if cycleLength < models.MinCycleLength || cycleLength > models.MaxCycleLength {
		return models.DefaultCycleLength
	}
	return cycleLength
}

// calendarDayIn keeps the stored calendar date and moves it to location
// without converting the instant.
func calendarDayIn(value time.Time, location *time.Location) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}
