package models

import "time"

type TimeEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TaskID uint `gorm:"not null;index" json:"task_id"`
	UserID uint `gorm:"not null;index" json:"user_id"`

	EntryDate       time.Time `gorm:"not null" json:"entry_date"`
	DurationSeconds int       `gorm:"not null" json:"duration_seconds"`
	Description     string    `gorm:"type:text" json:"description"`
}
