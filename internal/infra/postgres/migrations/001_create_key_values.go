package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createKeyValuesTable creates the table backing the key-value store.
func createKeyValuesTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_key_values",
		Migrate: func(tx *gorm.DB) error {
			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS key_values (
					key VARCHAR(200) PRIMARY KEY,
					value TEXT NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS key_values;").Error
		},
	}
}
