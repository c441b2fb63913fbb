// Package history computes per-field diffs between entity snapshots and
// turns them into append-only audit rows.
package history

import (
	"taskboard/internal/database"
	"taskboard/internal/models"
)

// Change is a single tracked-field difference.
type Change struct {
	Field string
	Old   string
	New   string
}

// Diff compares the stringified old snapshot against the proposed one, in
// the given field order. Only fields present in the proposed map are
// considered, so an absent field is never a change. Empty strings are
// compared as-is, not coerced.
func Diff(fields []string, old, proposed map[string]string) []Change {
	var changes []Change
	for _, f := range fields {
		nv, ok := proposed[f]
		if !ok {
			continue
		}
		if ov := old[f]; ov != nv {
			changes = append(changes, Change{Field: f, Old: ov, New: nv})
		}
	}
	return changes
}

// Find returns the change for a field, if any.
func Find(changes []Change, field string) (Change, bool) {
	for _, ch := range changes {
		if ch.Field == field {
			return ch, true
		}
	}
	return Change{}, false
}

// Record writes one audit row per change. No changes, no rows.
func Record(entity string, entityID uint, action string, changes []Change, actor models.User) {
	for _, ch := range changes {
		database.CreateHistoryEntry(entity, entityID, action, ch.Field, ch.Old, ch.New, actor)
	}
}

// RecordAction writes a single row marking a create or delete.
func RecordAction(entity string, entityID uint, action string, actor models.User) {
	database.CreateHistoryEntry(entity, entityID, action, "", "", "", actor)
}
