package models

import "time"

// HistoryEntry is one audit row: a single field change (or a create/delete
// marker) on a task or project. Append-only.
type HistoryEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Entity   string `gorm:"size:50;not null;index:ix_history_entity" json:"entity"` // "task", "project"
	EntityID uint   `gorm:"not null;index:ix_history_entity" json:"entity_id"`

	Action    string `gorm:"size:50;not null" json:"action"` // "create", "update", "delete"
	FieldName string `gorm:"size:100" json:"field_name"`
	OldValue  string `gorm:"type:text" json:"old_value"`
	NewValue  string `gorm:"type:text" json:"new_value"`

	ActorID    uint   `json:"actor_id"`
	ActorName  string `gorm:"size:255" json:"actor_name"`
	ActorEmail string `gorm:"size:255" json:"actor_email"`
}
