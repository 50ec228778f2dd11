package store

import (
	"context"
	"errors"
	"fmt"

	"inventory-tracker/feature/inventory/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when an item does not exist.
var ErrNotFound = errors.New("not found")

// Availability returns the number of available items per location.
func (s *GormStore) Availability(ctx context.Context) ([]models.LocationAvailability, error) {
	var rows []models.LocationAvailability
	err := s.db.WithContext(ctx).
		Table(models.AvailabilityView).
		Select("location, SUM(available) AS available").
		Group("location").
		Order("location").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}
	return rows, nil
}

// Item returns an item with its metadata and locations.
func (s *GormStore) Item(ctx context.Context, id string) (*models.ItemDetail, error) {
	db := s.db.WithContext(ctx)

	var item models.Item
	if err := db.Where("id = ?", id).Take(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load item %s: %w", id, err)
	}

	detail := &models.ItemDetail{Item: item, Locations: []string{}}

	var meta models.ItemMetadata
	err := db.Where("item_id = ?", id).Take(&meta).Error
	switch {
	case err == nil:
		detail.Metadata = &meta
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to load metadata for %s: %w", id, err)
	}

	err = db.Table("item_locations il").
		Joins("JOIN locations l ON l.id = il.location_id").
		Where("il.item_id = ?", id).
		Order("l.name").
		Pluck("l.name", &detail.Locations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load locations for %s: %w", id, err)
	}

	return detail, nil
}

// Cycles returns the most recent cycle reports, newest first.
func (s *GormStore) Cycles(ctx context.Context, limit int) ([]models.CycleRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []models.CycleRun
	err := s.db.WithContext(ctx).
		Order("started_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cycles: %w", err)
	}
	return runs, nil
}
