package model

import "time"

// PushSubscription holds a browser push subscription and the locations it
// follows.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Locations []*Location `gorm:"many2many:subscription_location_mapping;"`
}
