package services

import (
	"errors"
	"fmt"
	"net/url"

	"gorm.io/gorm"

	"github.com/dvircohen/repair-track/models"
)

// RepairService orchestrates the record flow: updates run load -> apply ->
// diff -> history append, lists run the filter compiler against storage.
type RepairService struct {
	DB      *gorm.DB
	History *HistoryStore
}

func NewRepairService(db *gorm.DB) *RepairService {
	return &RepairService{DB: db, History: NewHistoryStore(db)}
}

// Create inserts a new repair record. No history entry is written for the
// insert itself; the trail starts with the first update.
func (rs *RepairService) Create(repair *models.Repair) error {
	if repair.Status == "" {
		repair.Status = "Pending"
	}
	if err := rs.DB.Create(repair).Error; err != nil {
		return fmt.Errorf("failed to create repair: %w", err)
	}
	return nil
}

// Get loads one repair by id.
func (rs *RepairService) Get(id uint) (models.Repair, error) {
	var repair models.Repair
	if err := rs.DB.First(&repair, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Repair{}, ErrRepairNotFound
		}
		return models.Repair{}, fmt.Errorf("failed to load repair %d: %w", id, err)
	}
	return repair, nil
}

// Update applies a partial field-by-field overwrite, then writes one
// history entry iff the diff against the loaded snapshot is non-empty.
// A failure to append history after the record write committed still
// surfaces to the caller; the record is not rolled back.
func (rs *RepairService) Update(id uint, updates map[string]any, actor string) (models.Repair, []models.ChangeEntry, error) {
	if len(updates) == 0 {
		return models.Repair{}, nil, ErrEmptyUpdate
	}

	repair, err := rs.Get(id)
	if err != nil {
		return models.Repair{}, nil, err
	}
	oldSnap := repair.Snapshot()

	for _, spec := range repairSchema {
		if value, present := updates[spec.Name]; present {
			repair.ApplyUpdate(spec.Name, value)
		}
	}

	if err := rs.DB.Save(&repair).Error; err != nil {
		return models.Repair{}, nil, fmt.Errorf("failed to save repair %d: %w", id, err)
	}

	changes := ComputeChanges(oldSnap, repair.Snapshot())
	if len(changes) == 0 {
		return repair, changes, nil
	}

	if _, err := rs.History.Append(repair.ID, actor, changes, oldSnap, repair.Snapshot()); err != nil {
		return repair, changes, err
	}
	return repair, changes, nil
}

// List compiles the raw query values into a predicate and returns the full
// matching set newest first. Soft-deleted repairs are hidden unless the
// client filters on deleted explicitly.
func (rs *RepairService) List(values url.Values) ([]models.Repair, error) {
	tx := rs.DB.Model(&models.Repair{}).Scopes(CompileFilters(values))
	// an empty deleted= value is ignored like an absent key, same as the
	// filter compiler treats every other empty value
	if values.Get("deleted") == "" {
		tx = tx.Where("deleted = ?", false)
	}

	var repairs []models.Repair
	if err := tx.Order("id DESC").Find(&repairs).Error; err != nil {
		return nil, fmt.Errorf("failed to list repairs: %w", err)
	}
	return repairs, nil
}

// SoftDelete marks a repair as pending removal. It runs through Update so
// the flag flip lands in the history trail like any other edit.
func (rs *RepairService) SoftDelete(id uint, actor string) (models.Repair, error) {
	repair, _, err := rs.Update(id, map[string]any{"deleted": true}, actor)
	return repair, err
}

// ListHistory returns the audit trail for a repair, newest first. The
// repair itself must exist; a live repair with no edits yet reports
// ErrHistoryNotFound.
func (rs *RepairService) ListHistory(id uint) ([]models.RepairHistory, error) {
	if _, err := rs.Get(id); err != nil {
		return nil, err
	}
	return rs.History.ListByRepair(id)
}
