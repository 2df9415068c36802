package migration

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"MedTrack-Backend/entities"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.MedicationItem{}); err != nil {
		log.Fatalf("Error migrating medication item database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
