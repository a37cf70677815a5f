package services

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidCalendarMonth = errors.New("invalid calendar month")

type CalendarDay struct {
	Date        string  `json:"date"`
	Day         int     `json:"day"`
	InMonth     bool    `json:"in_month"`
	IsToday     bool    `json:"is_today"`
	IsOvulation bool    `json:"is_ovulation"`
	Type        DayType `json:"type"`
}

// ParseCalendarMonth accepts YYYY-MM and returns the first day of that month.
// An empty value selects the month containing now.
func ParseCalendarMonth(raw string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		year, month, _ := now.Date()
		return time.Date(year, month, 1, 0, 0, 0, 0, now.Location()), nil
	}
	parsed, err := time.ParseInLocation("2006-01", trimmed, now.Location())
	if err != nil {
		return time.Time{}, ErrInvalidCalendarMonth
	}
	return parsed, nil
}

// BuildCalendarMonth lays out the Sunday-first weeks covering month. A nil
// prediction leaves non-period days as normal.
func BuildCalendarMonth(month time.Time, periodDays PeriodDateSet, prediction *CyclePrediction, now time.Time) []CalendarDay {
	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)
	gridStart := monthStart.AddDate(0, 0, -int(monthStart.Weekday()))
	gridEnd := monthEnd.AddDate(0, 0, 6-int(monthEnd.Weekday()))

	todayKey := DateKey(DateAtLocation(now, now.Location()))
	ovulationKey := ""
	if prediction != nil {
		ovulationKey = DateKey(prediction.OvulationDate)
	}

	days := make([]CalendarDay, 0, 42)
	for day := gridStart; !day.After(gridEnd); day = day.AddDate(0, 0, 1) {
		key := DateKey(day)
		dayType := DayTypeNormal
		if prediction != nil {
			dayType = ClassifyDay(day, *prediction, periodDays)
		} else if periodDays.Contains(day) {
			dayType = DayTypePeriod
		}

		days = append(days, CalendarDay{
			Date:        key,
			Day:         day.Day(),
			InMonth:     day.Month() == monthStart.Month(),
			IsToday:     key == todayKey,
			IsOvulation: key == ovulationKey && dayType == DayTypeFertile,
			Type:        dayType,
		})
	}
	return days
}
