package models

import "time"

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TaskID uint `gorm:"not null;index" json:"task_id"`
	UserID uint `gorm:"not null" json:"user_id"`

	// author display name snapshotted at write time
	AuthorName string `gorm:"size:255" json:"author_name"`
	Body       string `gorm:"type:text;not null" json:"body"`
}
