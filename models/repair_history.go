package models

import "time"

// ChangeEntry is one field-level before/after pair detected by the diff
// engine. The json names (field/oldValue/newValue) are consumed by the
// history display and must stay stable.
type ChangeEntry struct {
	Field    string `json:"field"`
	OldValue any    `json:"oldValue"`
	NewValue any    `json:"newValue"`
}

// RepairHistory is an immutable audit entry: the changeset plus full
// before/after snapshots of the repair. Rows are append-only; nothing in
// the application updates or deletes them.
type RepairHistory struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	RepairID  uint           `gorm:"not null;index:idx_repair_created,priority:1" json:"repairId"`
	ChangedBy string         `gorm:"type:varchar(255)" json:"changedBy"`
	Changes   []ChangeEntry  `gorm:"serializer:json" json:"changes"`
	OldRepair map[string]any `gorm:"serializer:json" json:"oldRepair"`
	NewRepair map[string]any `gorm:"serializer:json" json:"newRepair"`
	CreatedAt time.Time      `gorm:"not null;index:idx_repair_created,priority:2" json:"createdAt"`
}
