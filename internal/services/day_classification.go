package services

import (
	"time"

	"github.com/terraincognita07/cyclecare/internal/models"
)

type DayType string

const (
	DayTypePeriod    DayType = "period"
	DayTypeFertile   DayType = "fertile"
	DayTypePredicted DayType = "predicted"
	DayTypeNormal    DayType = "normal"
)

// PeriodDateSet is a set of calendar days keyed by YYYY-MM-DD.
type PeriodDateSet map[string]struct{}

func NewPeriodDateSet(days ...time.Time) PeriodDateSet {
	set := make(PeriodDateSet, len(days))
	for _, day := range days {
		set.Add(day)
	}
	return set
}

func (set PeriodDateSet) Add(day time.Time) {
	set[DateKey(day)] = struct{}{}
}

func (set PeriodDateSet) Contains(day time.Time) bool {
	_, ok := set[DateKey(day)]
	return ok
}

// ClassifyDay labels a calendar day. Known period days win over the fertile
// window, which wins over the predicted period.
func ClassifyDay(date time.Time, prediction CyclePrediction, knownPeriodDates PeriodDateSet) DayType {
	if knownPeriodDates.Contains(date) {
		return DayTypePeriod
	}
	if betweenCalendarDaysInclusive(date, prediction.FertileWindowStart, prediction.FertileWindowEnd) {
		return DayTypeFertile
	}
	predictedEnd := prediction.NextPeriodDate.AddDate(0, 0, predictedPeriodSpanDays)
	if betweenCalendarDaysInclusive(date, prediction.NextPeriodDate, predictedEnd) {
		return DayTypePredicted
	}
	return DayTypeNormal
}

// ExpandPeriodDates collects logged period days. A cycle with an end date
// covers start through end; an open cycle contributes only its start day.
func ExpandPeriodDates(cycles []models.Cycle) PeriodDateSet {
	set := make(PeriodDateSet)
	for _, cycle := range cycles {
		start := calendarDayIn(cycle.StartDate, time.UTC)
		if cycle.EndDate == nil {
			set.Add(start)
			continue
		}

		end := calendarDayIn(*cycle.EndDate, time.UTC)
		if end.Before(start) {
			set.Add(start)
			continue
		}
		if latest := start.AddDate(0, 0, models.MaxCycleLength-1); end.After(latest) {
			end = latest
		}
		for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 0, 1) {
			set.Add(cursor)
		}
	}
	return set
}
