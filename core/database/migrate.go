package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate ensures the schema for the given models exists, creating or
// extending tables as needed. It is called once per store at startup.
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate local store schema: %w", err)
	}
	return nil
}
