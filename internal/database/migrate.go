package database

import (
	"fmt"
	"log"

	"github.com/nishmeets/research-digest/internal/models"
	"gorm.io/gorm"
)

// Migrate brings the schema up to date with the model definitions.
// AutoMigrate only adds missing tables, columns and indexes; it never
// drops or rewrites existing data.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	if err := db.AutoMigrate(
		&models.Paper{},
		&models.User{},
		&models.Bookmark{},
		&models.Explanation{},
		&models.Category{},
		&models.AnalyticsEvent{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations: schema is up to date")
	return nil
}
