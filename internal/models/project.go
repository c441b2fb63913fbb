package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type ProjectStatus string

const (
	ProjectOnTrack     ProjectStatus = "on_track"
	ProjectAtRisk      ProjectStatus = "at_risk"
	ProjectOffTrack    ProjectStatus = "off_track"
	ProjectOnHold      ProjectStatus = "on_hold"
	ProjectCompleted   ProjectStatus = "completed"
	ProjectMaintenance ProjectStatus = "maintenance"
)

type Project struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CustomerID uint     `gorm:"not null;index" json:"customer_id"`
	Customer   Customer `json:"customer,omitempty"`

	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	Status ProjectStatus `gorm:"type:varchar(50);not null" json:"status"`
	Region string        `gorm:"size:100" json:"region"`

	ManagerID     *uint `gorm:"index" json:"manager_id"`
	HeadManagerID *uint `gorm:"index" json:"head_manager_id"`

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	AllocatedTime  string `gorm:"size:20" json:"allocated_time"` // HH:MM:SS
	AttachmentPath string `gorm:"size:512" json:"attachment_path"`
	Archived       bool   `gorm:"not null;default:false" json:"archived"`

	CustomFields datatypes.JSONMap `gorm:"type:json" json:"custom_fields"`

	Tasks []Task `json:"tasks,omitempty"`
}

// ProjectFollower links users to projects they explicitly follow.
type ProjectFollower struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ProjectID uint `gorm:"not null;uniqueIndex:uq_project_follower" json:"project_id"`
	UserID    uint `gorm:"not null;uniqueIndex:uq_project_follower" json:"user_id"`
}

// NormalizeProjectStatus maps UI spellings ("on-track") onto the stored enum.
func NormalizeProjectStatus(s string) ProjectStatus {
	v := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	return ProjectStatus(v)
}

func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectOnTrack, ProjectAtRisk, ProjectOffTrack, ProjectOnHold,
		ProjectCompleted, ProjectMaintenance:
		return true
	}
	return false
}
