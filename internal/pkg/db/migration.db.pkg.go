package database

import (
	"ecosync-hub/internal/common/models"
	"ecosync-hub/internal/pkg/logger"
	"fmt"
)

// RunMigrations creates or updates every table the service owns.
func (db *Database) RunMigrations() error {
	logger.Info.Println("Starting database migrations...")

	// Parents before children
	entities := []any{
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.Address{},
	}

	for _, model := range entities {
		logger.Info.Printf("Migrating model: %T", model)
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	if err := db.createIndexes(); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logger.Info.Println("Database migrations completed successfully")
	return nil
}

func (db *Database) createIndexes() error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_user_addresses_user_default ON user_addresses(user_id, is_default);`,
	}

	// MySQL has no IF NOT EXISTS for indexes; AutoMigrate's single-column ones suffice there.
	if db.Config.Driver != POSTGRES {
		return nil
	}

	for _, query := range indexes {
		if err := db.Exec(query).Error; err != nil {
			logger.Error.Printf("Error creating index: %s, Error: %v", query, err)
			return err
		}
	}

	return nil
}
