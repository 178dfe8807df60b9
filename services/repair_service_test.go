package services

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dvircohen/repair-track/models"
)

func setupServiceDB(t *testing.T) *RepairService {
	db, err := gorm.Open(sqlite.Open("file:servicetest?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	db.Migrator().DropTable(&models.Repair{}, &models.RepairHistory{})
	if err := db.AutoMigrate(&models.Repair{}, &models.RepairHistory{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewRepairService(db)
}

func seedRepair(t *testing.T, rs *RepairService) models.Repair {
	recive := time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)
	repair := models.Repair{
		HatakType:    "radio",
		SerialNumber: "SN-1234",
		Status:       "Pending",
		Technician:   "Daniel",
		ReciveDate:   &recive,
		Faults:       models.StringList{"power", "screen"},
		CreatedBy:    models.Actor{ID: 3, Name: "Daniel"},
	}
	assert.NoError(t, rs.Create(&repair))
	return repair
}

func TestUpdateWritesHistory(t *testing.T) {
	rs := setupServiceDB(t)
	repair := seedRepair(t, rs)

	updated, changes, err := rs.Update(repair.ID, map[string]any{"status": "Completed"}, "Dana")
	assert.NoError(t, err)
	assert.Equal(t, "Completed", updated.Status)
	assert.Len(t, changes, 1)
	assert.Equal(t, "status", changes[0].Field)

	entries, err := rs.History.ListByRepair(repair.ID)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, repair.ID, entries[0].RepairID)
	assert.Equal(t, "Dana", entries[0].ChangedBy)
	assert.Len(t, entries[0].Changes, 1)
	assert.Equal(t, "status", entries[0].Changes[0].Field)
	assert.Equal(t, "Pending", entries[0].OldRepair["status"])
	assert.Equal(t, "Completed", entries[0].NewRepair["status"])
}

func TestUpdateNoOpSkipsHistory(t *testing.T) {
	rs := setupServiceDB(t)
	repair := seedRepair(t, rs)

	_, changes, err := rs.Update(repair.ID, map[string]any{"status": "Pending"}, "Dana")
	assert.NoError(t, err)
	assert.Empty(t, changes)

	_, err = rs.History.ListByRepair(repair.ID)
	assert.ErrorIs(t, err, ErrHistoryNotFound)
}

func TestUpdateSetReorderIsNoOp(t *testing.T) {
	rs := setupServiceDB(t)
	repair := seedRepair(t, rs)

	// same multiset, different order, as a JSON payload would deliver it
	_, changes, err := rs.Update(repair.ID, map[string]any{
		"faults": []any{"screen", "power"},
	}, "Dana")
	assert.NoError(t, err)
	assert.Empty(t, changes)

	_, err = rs.History.ListByRepair(repair.ID)
	assert.ErrorIs(t, err, ErrHistoryNotFound)
}

func TestUpdateEmptyPayload(t *testing.T) {
	rs := setupServiceDB(t)
	repair := seedRepair(t, rs)

	_, _, err := rs.Update(repair.ID, map[string]any{}, "Dana")
	assert.ErrorIs(t, err, ErrEmptyUpdate)
}

func TestUpdateUnknownRepair(t *testing.T) {
	rs := setupServiceDB(t)

	_, _, err := rs.Update(4242, map[string]any{"status": "Completed"}, "Dana")
	assert.ErrorIs(t, err, ErrRepairNotFound)
}

func TestUpdatePartialOverwrite(t *testing.T) {
	rs := setupServiceDB(t)
	repair := seedRepair(t, rs)

	updated, changes, err := rs.Update(repair.ID, map[string]any{
		"faults": []any{"power"},
	}, "Dana")
	assert.NoError(t, err)
	// whole-array replacement for set fields
	assert.Equal(t, models.StringList{"power"}, updated.Faults)
	// omitted fields keep their values
	assert.Equal(t, "Pending", updated.Status)
	assert.Equal(t, "Daniel", updated.Technician)
	assert.Len(t, changes, 1)
}

func TestHistoryMonotonic(t *testing.T) {
	rs := setupServiceDB(t)
	repair := seedRepair(t, rs)

	for _, status := range []string{"InProgress", "Completed", "Scrapped"} {
		_, _, err := rs.Update(repair.ID, map[string]any{"status": status}, "Dana")
		assert.NoError(t, err)
	}

	entries, err := rs.ListHistory(repair.ID)
	assert.NoError(t, err)
	assert.Len(t, entries, 3)
	// newest first
	assert.Equal(t, "Scrapped", entries[0].Changes[0].NewValue)
	assert.Equal(t, "Completed", entries[1].Changes[0].NewValue)
	assert.Equal(t, "InProgress", entries[2].Changes[0].NewValue)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i-1].CreatedAt.Before(entries[i].CreatedAt))
	}
}

func TestListHistoryErrors(t *testing.T) {
	rs := setupServiceDB(t)
	repair := seedRepair(t, rs)

	_, err := rs.ListHistory(4242)
	assert.ErrorIs(t, err, ErrRepairNotFound)

	_, err = rs.ListHistory(repair.ID)
	assert.ErrorIs(t, err, ErrHistoryNotFound)
}

func TestListNewestFirst(t *testing.T) {
	rs := setupServiceDB(t)
	first := seedRepair(t, rs)

	second := models.Repair{HatakType: "antenna", Status: "Pending"}
	assert.NoError(t, rs.Create(&second))

	repairs, err := rs.List(url.Values{})
	assert.NoError(t, err)
	assert.Len(t, repairs, 2)
	assert.Equal(t, second.ID, repairs[0].ID)
	assert.Equal(t, first.ID, repairs[1].ID)
}

func TestSoftDeleteHidesFromList(t *testing.T) {
	rs := setupServiceDB(t)
	repair := seedRepair(t, rs)
	keeper := models.Repair{HatakType: "antenna", Status: "Pending"}
	assert.NoError(t, rs.Create(&keeper))

	_, err := rs.SoftDelete(repair.ID, "Dana")
	assert.NoError(t, err)

	repairs, err := rs.List(url.Values{})
	assert.NoError(t, err)
	assert.Len(t, repairs, 1)
	assert.Equal(t, keeper.ID, repairs[0].ID)

	// the flag flip is itself audited
	entries, err := rs.ListHistory(repair.ID)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "deleted", entries[0].Changes[0].Field)

	// still reachable when filtering on the flag explicitly
	deleted, err := rs.List(url.Values{"deleted": {"true"}})
	assert.NoError(t, err)
	assert.Len(t, deleted, 1)
}

func TestListEmptyDeletedValueStaysHidden(t *testing.T) {
	rs := setupServiceDB(t)
	repair := seedRepair(t, rs)
	keeper := models.Repair{HatakType: "antenna", Status: "Pending"}
	assert.NoError(t, rs.Create(&keeper))

	_, err := rs.SoftDelete(repair.ID, "Dana")
	assert.NoError(t, err)

	// deleted= with an empty value is ignored like an absent key, so the
	// soft-deleted row stays hidden
	repairs, err := rs.List(url.Values{"deleted": {""}})
	assert.NoError(t, err)
	assert.Len(t, repairs, 1)
	assert.Equal(t, keeper.ID, repairs[0].ID)
}

func TestUpdateSurfacesHistoryAppendFailure(t *testing.T) {
	rs := setupServiceDB(t)
	repair := seedRepair(t, rs)

	// break the history table out from under the append
	assert.NoError(t, rs.DB.Migrator().DropTable(&models.RepairHistory{}))

	_, _, err := rs.Update(repair.ID, map[string]any{"status": "Completed"}, "Dana")
	assert.Error(t, err)

	// the record write itself committed before the append failed
	saved, getErr := rs.Get(repair.ID)
	assert.NoError(t, getErr)
	assert.Equal(t, "Completed", saved.Status)
}
