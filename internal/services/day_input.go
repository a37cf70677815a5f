package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/cyclecare/internal/models"
)

const (
	MaxDayNotesLength = 2000
	MaxWaterIntakeML  = 20000
	MaxWaterServingML = 5000
)

var (
	ErrInvalidDayMood      = errors.New("invalid day mood")
	ErrInvalidDaySymptom   = errors.New("invalid day symptom")
	ErrInvalidWaterIntake  = errors.New("invalid water intake")
	ErrInvalidWaterServing = errors.New("invalid water serving")
)

// DayEntryInput replaces the tracked fields of one day. A nil WaterIntake
// keeps the stored amount.
type DayEntryInput struct {
	WaterIntake *int
	Mood        string
	Symptoms    []string
	Notes       string
}

func NormalizeDayEntryInput(input DayEntryInput) (DayEntryInput, error) {
	input.Mood = strings.ToLower(strings.TrimSpace(input.Mood))
	if !IsValidMood(input.Mood) {
		return input, ErrInvalidDayMood
	}

	symptoms, err := NormalizeSymptoms(input.Symptoms)
	if err != nil {
		return input, err
	}
	input.Symptoms = symptoms

	if input.WaterIntake != nil && (*input.WaterIntake < 0 || *input.WaterIntake > MaxWaterIntakeML) {
		return input, ErrInvalidWaterIntake
	}

	input.Notes = TrimDayNotes(strings.TrimSpace(input.Notes))
	return input, nil
}

// IsValidMood accepts the empty mood as "not recorded".
func IsValidMood(mood string) bool {
	if mood == "" {
		return true
	}
	for _, known := range models.Moods() {
		if mood == known {
			return true
		}
	}
	return false
}

// NormalizeSymptoms deduplicates symptoms and returns them in catalogue order.
func NormalizeSymptoms(symptoms []string) ([]string, error) {
	selected := make(map[string]struct{}, len(symptoms))
	for _, raw := range symptoms {
		symptom := strings.ToLower(strings.TrimSpace(raw))
		if symptom == "" {
			continue
		}
		selected[symptom] = struct{}{}
	}

	normalized := make([]string, 0, len(selected))
	for _, known := range models.Symptoms() {
		if _, ok := selected[known]; ok {
			normalized = append(normalized, known)
			delete(selected, known)
		}
	}
	if len(selected) > 0 {
		return nil, ErrInvalidDaySymptom
	}
	return normalized, nil
}

func TrimDayNotes(value string) string {
	if utf8.RuneCountInString(value) <= MaxDayNotesLength {
		return value
	}
	return string([]rune(value)[:MaxDayNotesLength])
}

func DayHasData(entry models.DailyLog) bool {
	return entry.WaterIntake > 0 ||
		strings.TrimSpace(entry.Mood) != "" ||
		len(entry.Symptoms) > 0 ||
		strings.TrimSpace(entry.Notes) != ""
}
