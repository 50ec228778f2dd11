package inventory

import (
	"context"

	"inventory-tracker/feature/inventory/models"

	"go.uber.org/zap"
)

// Reader is the read side of the inventory store.
type Reader interface {
	Availability(ctx context.Context) ([]models.LocationAvailability, error)
	Item(ctx context.Context, id string) (*models.ItemDetail, error)
	Cycles(ctx context.Context, limit int) ([]models.CycleRun, error)
}

// Service answers status queries about tracked inventory.
type Service struct {
	reader Reader
	logger *zap.Logger
}

// NewService creates a new inventory service.
func NewService(reader Reader, logger *zap.Logger) *Service {
	return &Service{reader: reader, logger: logger}
}

// Availability returns available item counts per location.
func (s *Service) Availability(ctx context.Context) ([]models.LocationAvailability, error) {
	return s.reader.Availability(ctx)
}

// Item returns one item with its metadata and locations.
func (s *Service) Item(ctx context.Context, id string) (*models.ItemDetail, error) {
	return s.reader.Item(ctx, id)
}

// Cycles returns recent cycle reports, clamped to 1..100 entries.
func (s *Service) Cycles(ctx context.Context, limit int) ([]models.CycleRun, error) {
	switch {
	case limit <= 0:
		limit = 20
	case limit > 100:
		limit = 100
	}
	return s.reader.Cycles(ctx, limit)
}
