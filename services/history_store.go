package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/dvircohen/repair-track/models"
)

// HistoryStore appends and reads the immutable repair audit trail. Rows are
// only ever inserted; concurrent appends for different updates are safe
// because each append is a single insert and ordering comes from the
// (repair_id, created_at) index, not from application state.
type HistoryStore struct {
	DB *gorm.DB
}

func NewHistoryStore(db *gorm.DB) *HistoryStore {
	return &HistoryStore{DB: db}
}

// Append persists one audit entry. The caller is responsible for having
// verified the repair exists and the changeset is non-empty.
func (hs *HistoryStore) Append(repairID uint, actor string, changes []models.ChangeEntry, oldSnap, newSnap map[string]any) (models.RepairHistory, error) {
	entry := models.RepairHistory{
		RepairID:  repairID,
		ChangedBy: actor,
		Changes:   changes,
		OldRepair: oldSnap,
		NewRepair: newSnap,
	}
	if err := hs.DB.Create(&entry).Error; err != nil {
		return models.RepairHistory{}, fmt.Errorf("failed to append history for repair %d: %w", repairID, err)
	}
	return entry, nil
}

// ListByRepair returns the audit trail newest first. A repair with no
// history yields ErrHistoryNotFound rather than an empty list, so the
// endpoint can answer 404.
func (hs *HistoryStore) ListByRepair(repairID uint) ([]models.RepairHistory, error) {
	var entries []models.RepairHistory
	if err := hs.DB.Where("repair_id = ?", repairID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list history for repair %d: %w", repairID, err)
	}
	if len(entries) == 0 {
		return nil, ErrHistoryNotFound
	}
	return entries, nil
}
