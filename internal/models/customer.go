package models

import "time"

type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name         string `gorm:"size:255;not null" json:"name"`
	Industry     string `gorm:"size:100" json:"industry"`
	ContactName  string `gorm:"size:255" json:"contact_name"`
	ContactEmail string `gorm:"size:255" json:"contact_email"`
	ContactPhone string `gorm:"size:50" json:"contact_phone"`
	Notes        string `gorm:"type:text" json:"notes"`
	Archived     bool   `gorm:"not null;default:false" json:"archived"`

	Projects []Project `json:"projects,omitempty"`
}
