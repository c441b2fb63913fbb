package database

import (
	"log"

	"taskboard/internal/models"
)

// CreateHistoryEntry appends one audit row. Best-effort: the caller's
// mutation already succeeded, so a failure here is logged and swallowed.
func CreateHistoryEntry(entity string, entityID uint, action, field, oldValue, newValue string, actor models.User) {
	if DB == nil {
		return
	}
	record := models.HistoryEntry{
		Entity:     entity,
		EntityID:   entityID,
		Action:     action,
		FieldName:  field,
		OldValue:   oldValue,
		NewValue:   newValue,
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		ActorEmail: actor.Email,
	}
	if err := DB.Create(&record).Error; err != nil {
		log.Printf("history: failed to record %s %d %s/%s: %v", entity, entityID, action, field, err)
	}
}
