package models

import "time"

// notification type tags
const (
	NotifTaskCreated      = "task_created"
	NotifTaskAssigned     = "task_assigned"
	NotifTaskStatusUpdate = "task_status_update"
	NotifTaskUpdated      = "task_updated"
	NotifTaskDeleted      = "task_deleted"

	NotifProjectCreated = "project_created"
	NotifProjectUpdated = "project_updated"
	NotifProjectDeleted = "project_deleted"
)

type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Message string `gorm:"type:text;not null" json:"message"`
	Type    string `gorm:"size:50;not null" json:"type"`
	Read    bool   `gorm:"not null;default:false" json:"read"`
}
