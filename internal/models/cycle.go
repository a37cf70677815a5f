package models

import "time"

const (
	DefaultCycleLength  = 28
	DefaultPeriodLength = 5
	MinCycleLength      = 1
	MaxCycleLength      = 120
)

// Cycle is one menstrual cycle. A cycle is complete once both EndDate and
// Length are known.
type Cycle struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	StartDate time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date"`
	Length    *int       `json:"length"`
	IsActive  bool       `gorm:"not null" json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
}

func (cycle Cycle) IsComplete() bool {
	return cycle.EndDate != nil && cycle.Length != nil
}
