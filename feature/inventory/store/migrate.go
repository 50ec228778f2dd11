package store

import (
	"context"
	"fmt"
	"strings"

	"inventory-tracker/feature/inventory/models"

	"gorm.io/gorm/clause"
)

const availabilitySelect = `SELECT i.id AS item_id, l.name AS location,
	CASE WHEN i.removed_at IS NULL AND EXISTS (
		SELECT 1 FROM item_locations il WHERE il.item_id = i.id AND il.location_id = l.id
	) THEN 1 ELSE 0 END AS available
FROM items i CROSS JOIN locations l`

// Migrate creates or updates the tables, the availability view and seeds the
// location enumeration. It is safe to run repeatedly.
func (s *GormStore) Migrate(ctx context.Context, locations []string) error {
	db := s.db.WithContext(ctx)

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}

	if err := db.Exec(createViewStatement(db.Dialector.Name())).Error; err != nil {
		return fmt.Errorf("failed to create %s view: %w", models.AvailabilityView, err)
	}

	for _, name := range locations {
		name = strings.ToUpper(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Location{Name: name}).Error
		if err != nil {
			return fmt.Errorf("failed to seed location %s: %w", name, err)
		}
	}
	s.locations.forget()

	return nil
}

func createViewStatement(dialect string) string {
	if dialect == "sqlite" {
		return "CREATE VIEW IF NOT EXISTS " + models.AvailabilityView + " AS " + availabilitySelect
	}
	return "CREATE OR REPLACE VIEW " + models.AvailabilityView + " AS " + availabilitySelect
}
