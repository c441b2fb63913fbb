package models

import (
	"testing"

	"gorm.io/datatypes"
)

func TestMergeCustomFields(t *testing.T) {
	existing := datatypes.JSONMap{"priority": "high", "billable": true}

	merged, err := MergeCustomFields(existing, map[string]interface{}{
		"priority": "low",
		"points":   float64(3),
	})
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if merged["priority"] != "low" {
		t.Errorf("priority = %v, want low", merged["priority"])
	}
	if merged["billable"] != true {
		t.Errorf("billable dropped during merge")
	}
	if merged["points"] != float64(3) {
		t.Errorf("points = %v, want 3", merged["points"])
	}

	// the input map must not be mutated
	if existing["priority"] != "high" {
		t.Errorf("existing map was mutated")
	}
}

func TestMergeCustomFieldsNilRemoves(t *testing.T) {
	existing := datatypes.JSONMap{"priority": "high"}
	merged, err := MergeCustomFields(existing, map[string]interface{}{"priority": nil})
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if _, ok := merged["priority"]; ok {
		t.Errorf("nil value should remove the key, got %v", merged["priority"])
	}
}

func TestMergeCustomFieldsRejectsReserved(t *testing.T) {
	for _, key := range []string{"id", "status", "assigned_by", "assigned_to", "created_at"} {
		if _, err := MergeCustomFields(nil, map[string]interface{}{key: "x"}); err == nil {
			t.Errorf("reserved key %q was accepted", key)
		}
	}
}

func TestMergeCustomFieldsRejectsNonScalar(t *testing.T) {
	if _, err := MergeCustomFields(nil, map[string]interface{}{
		"nested": map[string]interface{}{"a": 1},
	}); err == nil {
		t.Error("nested object was accepted")
	}
	if _, err := MergeCustomFields(nil, map[string]interface{}{
		"list": []interface{}{1, 2},
	}); err == nil {
		t.Error("array value was accepted")
	}
}
