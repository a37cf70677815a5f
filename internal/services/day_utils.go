package services

import "time"

const dateLayout = "2006-01-02"

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

// ParseDay parses a YYYY-MM-DD calendar day at midnight in location.
func ParseDay(raw string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	return time.ParseInLocation(dateLayout, raw, location)
}

func DateKey(value time.Time) string {
	return value.Format(dateLayout)
}

// calendarDaysBetween counts whole calendar days from start to end using the
// date components only, so DST transitions never shift the result.
func calendarDaysBetween(start time.Time, end time.Time) int {
	startYear, startMonth, startDay := start.Date()
	endYear, endMonth, endDay := end.Date()
	startUTC := time.Date(startYear, startMonth, startDay, 0, 0, 0, 0, time.UTC)
	endUTC := time.Date(endYear, endMonth, endDay, 0, 0, 0, 0, time.UTC)
	return int(endUTC.Sub(startUTC).Hours() / 24)
}

func sameCalendarDay(a time.Time, b time.Time) bool {
	return DateKey(a) == DateKey(b)
}

func betweenCalendarDaysInclusive(day time.Time, start time.Time, end time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return false
	}
	dayKey := DateKey(day)
	return dayKey >= DateKey(start) && dayKey <= DateKey(end)
}
