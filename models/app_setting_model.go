package models

import "time"

// AppSetting is a versioned operational switch read at request time, not a
// code constant. The admit-card release toggle lives here.
type AppSetting struct {
	ID      uint   `gorm:"primary_key" json:"id"`
	Name    string `gorm:"size:64;not null;unique" json:"name"`
	Value   string `gorm:"size:255;not null" json:"value"`
	Version int    `gorm:"not null;default:1" json:"version"`

	UpdatedAt time.Time `json:"updated_at"`
}
