package model

import "time"

// LocationStatusOpen is the state a location is currently in (hot table).
type LocationStatusOpen struct {
	LocationID int64     `gorm:"primaryKey"`
	ObservedAt time.Time `gorm:"not null"` // When this state was first seen
	State      string    `gorm:"size:32;not null"`
	Message    string    `gorm:"not null"`
	ChangesAt  *time.Time
}

// LocationStatusHistory is a finished state period (cold table).
type LocationStatusHistory struct {
	ID          int64     `gorm:"primaryKey"`
	LocationID  int64     `gorm:"not null;index"`
	ObservedAt  time.Time `gorm:"not null;index"` // When the state's end was observed
	State       string    `gorm:"size:32;not null"`
	Message     string    `gorm:"not null"`
	PeriodStart time.Time `gorm:"not null"`
	PeriodEnd   time.Time `gorm:"not null"` // Predicted end when known
}
