package model

import "time"

// Session is one logged practice entry. Date is a calendar day stored as
// "YYYY-MM-DD" so range filters stay plain string comparisons.
type Session struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Date         string    `gorm:"size:10;not null;index" json:"date"`
	Topic        string    `gorm:"size:120;not null;index" json:"topic"`
	DurationMin  int       `gorm:"not null" json:"duration_min"`
	Notes        string    `gorm:"type:text" json:"notes"`
	InstrumentID *uint     `gorm:"index" json:"instrument_id,omitempty"`
	Tags         []Tag     `gorm:"many2many:session_tags" json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DateLayout is the canonical calendar-day format for Session.Date.
const DateLayout = "2006-01-02"
