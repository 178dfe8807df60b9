package database

import (
	"github.com/dvircohen/repair-track/models"
	"github.com/dvircohen/repair-track/utils"
	"gorm.io/gorm"
)

// Migrate creates the schema and verifies the history range index. The
// composite (repair_id, created_at) index backs the newest-first history
// scan and must exist for the trail to stay cheap to read.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Repair{},
		&models.RepairHistory{},
		&models.FilterTemplate{},
	); err != nil {
		return err
	}

	if !db.Migrator().HasIndex(&models.RepairHistory{}, "idx_repair_created") {
		if err := db.Migrator().CreateIndex(&models.RepairHistory{}, "idx_repair_created"); err != nil {
			utils.ErrorLogger.Printf("Error creating history index: %v", err)
			return err
		}
	}

	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
