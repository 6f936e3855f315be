package model

import "time"

type Instrument struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:80;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SeedInstruments are created on first run if missing.
var SeedInstruments = []string{"Guitarra", "Piano", "Violín"}
