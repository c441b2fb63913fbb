package models

import (
	"fmt"

	"gorm.io/datatypes"
)

// reservedFieldNames are column names that must never be smuggled in through
// the open custom_fields map.
var reservedFieldNames = map[string]struct{}{
	"id":              {},
	"project_id":      {},
	"customer_id":     {},
	"title":           {},
	"name":            {},
	"description":     {},
	"status":          {},
	"assigned_to":     {},
	"assigned_by":     {},
	"manager_id":      {},
	"head_manager_id": {},
	"due_date":        {},
	"start_date":      {},
	"end_date":        {},
	"allocated_time":  {},
	"attachment_path": {},
	"region":          {},
	"archived":        {},
	"created_at":      {},
	"updated_at":      {},
}

// MergeCustomFields merges an incoming key/value map into the stored one.
// Keys on the reserved list are rejected, values must be JSON scalars.
// A nil incoming value removes the key.
func MergeCustomFields(existing datatypes.JSONMap, incoming map[string]interface{}) (datatypes.JSONMap, error) {
	merged := datatypes.JSONMap{}
	for k, v := range existing {
		merged[k] = v
	}

	for k, v := range incoming {
		if _, reserved := reservedFieldNames[k]; reserved {
			return nil, fmt.Errorf("custom field name %q is reserved", k)
		}
		if v == nil {
			delete(merged, k)
			continue
		}
		switch v.(type) {
		case string, bool, float64, int, int64:
			merged[k] = v
		default:
			return nil, fmt.Errorf("custom field %q must be a scalar value", k)
		}
	}
	return merged, nil
}
