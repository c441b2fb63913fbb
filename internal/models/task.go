package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

type Task struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectID uint    `gorm:"not null;index" json:"project_id"`
	Project   Project `json:"project,omitempty"`

	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	Status TaskStatus `gorm:"type:varchar(50);not null" json:"status"`

	AssignedTo *uint `gorm:"index" json:"assigned_to"`
	// display name of the creator, never changed after create
	AssignedBy string `gorm:"size:255" json:"assigned_by"`

	DueDate       *time.Time `json:"due_date"`
	AllocatedTime string     `gorm:"size:20" json:"allocated_time"` // HH:MM:SS
	Archived      bool       `gorm:"not null;default:false" json:"archived"`

	CustomFields datatypes.JSONMap `gorm:"type:json" json:"custom_fields"`
}

// NormalizeTaskStatus collapses UI-level aliases onto the stored enum:
// "in-progress"/"on-track"/"at-risk"/"off-track" -> in_progress,
// "on-hold" -> pending. Idempotent: canonical values map to themselves.
func NormalizeTaskStatus(s string) TaskStatus {
	v := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch v {
	case "in_progress", "on_track", "at_risk", "off_track":
		return TaskInProgress
	case "pending", "on_hold":
		return TaskPending
	case "completed":
		return TaskCompleted
	}
	return TaskStatus(v)
}

func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// StatusDisplay renders a status for notification messages:
// in_progress -> "In Progress", anything else gets its first letter upcased.
func StatusDisplay(status string) string {
	if strings.ReplaceAll(status, "-", "_") == string(TaskInProgress) {
		return "In Progress"
	}
	if status == "" {
		return ""
	}
	return strings.ToUpper(status[:1]) + status[1:]
}
