package models

import "time"

type JournalEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Date      time.Time `gorm:"type:date;not null" json:"date"`
	Title     string    `gorm:"not null;default:''" json:"title"`
	Content   string    `gorm:"not null" json:"content"`
	Mood      string    `gorm:"not null;default:''" json:"mood"`
	Tags      []string  `gorm:"serializer:json" json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (JournalEntry) TableName() string {
	return "journal_entries"
}
