package models

import "time"

const (
	MoodHappy   = "happy"
	MoodSad     = "sad"
	MoodAngry   = "angry"
	MoodTired   = "tired"
	MoodAnxious = "anxious"
)

const (
	SymptomCramps           = "cramps"
	SymptomBloating         = "bloating"
	SymptomHeadache         = "headache"
	SymptomNausea           = "nausea"
	SymptomAcne             = "acne"
	SymptomMoodSwings       = "mood_swings"
	SymptomFatigue          = "fatigue"
	SymptomBreastTenderness = "breast_tenderness"
	SymptomCravings         = "cravings"
)

func Moods() []string {
	return []string{MoodHappy, MoodSad, MoodAngry, MoodTired, MoodAnxious}
}

func Symptoms() []string {
	return []string{
		SymptomCramps,
		SymptomBloating,
		SymptomHeadache,
		SymptomNausea,
		SymptomAcne,
		SymptomMoodSwings,
		SymptomFatigue,
		SymptomBreastTenderness,
		SymptomCravings,
	}
}

// DailyLog holds one day of tracking data. WaterIntake is in millilitres.
type DailyLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:uidx_daily_logs_user_date" json:"user_id"`
	Date        time.Time `gorm:"type:date;not null;uniqueIndex:uidx_daily_logs_user_date" json:"date"`
	WaterIntake int       `gorm:"not null;default:0" json:"water_intake"`
	Mood        string    `gorm:"not null;default:''" json:"mood"`
	Symptoms    []string  `gorm:"serializer:json" json:"symptoms"`
	Notes       string    `gorm:"not null;default:''" json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
