package services

import "github.com/dvircohen/repair-track/models"

// ComputeChanges walks the repair schema in declaration order and emits one
// ChangeEntry per field whose values are not equal under that field's kind.
// Only fields present in the new snapshot are examined: the new record's
// shape defines the comparison surface. Bookkeeping fields are always
// skipped. An identical pair of snapshots yields an empty (non-nil) slice.
func ComputeChanges(oldSnap, newSnap map[string]any) []models.ChangeEntry {
	changes := make([]models.ChangeEntry, 0)
	for _, spec := range repairSchema {
		if _, skip := bookkeepingFields[spec.Name]; skip {
			continue
		}
		newVal, present := newSnap[spec.Name]
		if !present {
			continue
		}
		oldVal := oldSnap[spec.Name]
		if !valuesEqual(spec.Kind, oldVal, newVal) {
			changes = append(changes, models.ChangeEntry{
				Field:    spec.Name,
				OldValue: oldVal,
				NewValue: newVal,
			})
		}
	}
	return changes
}
