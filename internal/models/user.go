package models

import "time"

type UserRole string

const (
	RoleAdmin       UserRole = "admin"
	RoleHeadManager UserRole = "head_manager"
	RoleManager     UserRole = "manager"
	RoleEngineer    UserRole = "engineer"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email        string   `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name         string   `gorm:"size:255;not null" json:"name"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null" json:"role"`

	// reporting line: the user this one reports to
	ManagerID *uint `json:"manager_id"`
}
