package store

import (
	"context"
	"fmt"
	"time"

	"inventory-tracker/core/inventory"
	"inventory-tracker/core/reconcile"
	"inventory-tracker/feature/inventory/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements reconcile.Store and reconcile.CycleRecorder on a
// relational database. Every write is conditioned on absence or on the
// removal timestamp, so repeating a call has no additional effect.
type GormStore struct {
	db        *gorm.DB
	locations *locationCache
	now       func() time.Time
}

var (
	_ reconcile.Store         = (*GormStore)(nil)
	_ reconcile.CycleRecorder = (*GormStore)(nil)
)

// New creates a GormStore.
func New(db *gorm.DB) *GormStore {
	return &GormStore{
		db:        db,
		locations: newLocationCache(),
		now:       time.Now,
	}
}

// DB returns the underlying connection.
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

// ActiveIdentifiers returns the IDs of all items without a removal timestamp.
func (s *GormStore) ActiveIdentifiers(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("removed_at IS NULL").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load active items: %w", err)
	}

	active := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		active[id] = struct{}{}
	}
	return active, nil
}

// UpsertItem inserts the item if absent and reactivates it if it was removed.
func (s *GormStore) UpsertItem(ctx context.Context, id string) (reconcile.ItemOutcome, error) {
	db := s.db.WithContext(ctx)

	res := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Item{ID: id, CreatedAt: s.now().UTC()})
	if res.Error != nil {
		return reconcile.ItemUnchanged, res.Error
	}
	if res.RowsAffected > 0 {
		return reconcile.ItemCreated, nil
	}

	res = db.Model(&models.Item{}).
		Where("id = ? AND removed_at IS NOT NULL", id).
		Update("removed_at", nil)
	if res.Error != nil {
		return reconcile.ItemUnchanged, res.Error
	}
	if res.RowsAffected > 0 {
		return reconcile.ItemReactivated, nil
	}
	return reconcile.ItemUnchanged, nil
}

// UpsertMetadata inserts metadata; an existing row for the item is kept.
func (s *GormStore) UpsertMetadata(ctx context.Context, m inventory.Metadata) error {
	row := metadataRow(m)
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_id"}},
			DoNothing: true,
		}).
		Create(&row).Error
}

// OverwriteMetadata inserts metadata or replaces attributes and price.
func (s *GormStore) OverwriteMetadata(ctx context.Context, m inventory.Metadata) error {
	row := metadataRow(m)
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"attributes", "price", "updated_at"}),
		}).
		Create(&row).Error
}

func metadataRow(m inventory.Metadata) models.ItemMetadata {
	attrs := m.Attributes
	if attrs == nil {
		attrs = inventory.Attributes{}
	}
	return models.ItemMetadata{ItemID: m.ItemID, Attributes: attrs, Price: m.Price}
}

// UpsertLocation returns the ID of the named location, creating it if absent.
func (s *GormStore) UpsertLocation(ctx context.Context, name string) (uint, error) {
	return s.locations.resolve(name, func() (uint, error) {
		db := s.db.WithContext(ctx)
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Location{Name: name}).Error; err != nil {
			return 0, err
		}
		var loc models.Location
		if err := db.Where("name = ?", name).Take(&loc).Error; err != nil {
			return 0, err
		}
		return loc.ID, nil
	})
}

// UpsertItemLocation associates an item with a location if not already associated.
func (s *GormStore) UpsertItemLocation(ctx context.Context, itemID string, locationID uint) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ItemLocation{ItemID: itemID, LocationID: locationID}).Error
}

// MarkRemoved sets the removal timestamp unless it is already set.
func (s *GormStore) MarkRemoved(ctx context.Context, id string, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND removed_at IS NULL", id).
		Update("removed_at", at.UTC())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RecordCycle persists a cycle report.
func (s *GormStore) RecordCycle(ctx context.Context, report reconcile.Report) error {
	run := models.CycleRun{
		StartedAt:        report.StartedAt.UTC(),
		FinishedAt:       report.FinishedAt.UTC(),
		Status:           string(report.Status),
		ActiveBefore:     report.ActiveBefore,
		Records:          report.Records,
		Seen:             report.Seen,
		Created:          report.Created,
		Reactivated:      report.Reactivated,
		Removed:          report.Removed,
		UnknownLocations: report.UnknownLocations,
		StoreErrors:      report.StoreErrors,
		Skipped:          report.Skipped,
		Error:            report.Error,
	}
	if err := s.db.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("failed to record cycle: %w", err)
	}
	return nil
}
