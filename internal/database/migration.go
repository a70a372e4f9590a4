package database

import (
	"fmt"

	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for the client cache tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Student{},
		&models.Project{},
		&models.Task{},
		&models.Group{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// AutoMigrateNotify runs schema migrations for the push relay tables.
func AutoMigrateNotify(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Subscription{}); err != nil {
		return fmt.Errorf("auto migrate notify: %w", err)
	}
	return nil
}
