package reconcile

import (
	"context"
	"sync"
	"time"

	"inventory-tracker/core/inventory"
)

type fakeItem struct {
	createdAt time.Time
	removedAt *time.Time
}

type pairKey struct {
	itemID     string
	locationID uint
}

// fakeStore is an in-memory Store with injectable failures.
type fakeStore struct {
	mu        sync.Mutex
	items     map[string]*fakeItem
	metadata  map[string]inventory.Metadata
	locations map[string]uint
	pairs     map[pairKey]struct{}
	cycles    []Report
	writes    int

	snapshotErr error
	itemErr     map[string]error
	metadataErr map[string]error
	pairErr     map[string]error
	removeErr   map[string]error
	now         time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:     map[string]*fakeItem{},
		metadata:  map[string]inventory.Metadata{},
		locations: map[string]uint{},
		pairs:     map[pairKey]struct{}{},
		now:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// seed inserts active items directly.
func (s *fakeStore) seed(ids ...string) {
	for _, id := range ids {
		s.items[id] = &fakeItem{createdAt: s.now}
	}
}

func (s *fakeStore) ActiveIdentifiers(ctx context.Context) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshotErr != nil {
		return nil, s.snapshotErr
	}
	active := map[string]struct{}{}
	for id, item := range s.items {
		if item.removedAt == nil {
			active[id] = struct{}{}
		}
	}
	return active, nil
}

func (s *fakeStore) UpsertItem(ctx context.Context, id string) (ItemOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if err := s.itemErr[id]; err != nil {
		return ItemUnchanged, err
	}
	item, ok := s.items[id]
	if !ok {
		s.items[id] = &fakeItem{createdAt: s.now}
		return ItemCreated, nil
	}
	if item.removedAt != nil {
		item.removedAt = nil
		return ItemReactivated, nil
	}
	return ItemUnchanged, nil
}

func (s *fakeStore) UpsertMetadata(ctx context.Context, m inventory.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if err := s.metadataErr[m.ItemID]; err != nil {
		return err
	}
	if _, ok := s.metadata[m.ItemID]; !ok {
		s.metadata[m.ItemID] = m
	}
	return nil
}

func (s *fakeStore) OverwriteMetadata(ctx context.Context, m inventory.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if err := s.metadataErr[m.ItemID]; err != nil {
		return err
	}
	s.metadata[m.ItemID] = m
	return nil
}

func (s *fakeStore) UpsertLocation(ctx context.Context, name string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if id, ok := s.locations[name]; ok {
		return id, nil
	}
	id := uint(len(s.locations) + 1)
	s.locations[name] = id
	return id, nil
}

func (s *fakeStore) UpsertItemLocation(ctx context.Context, itemID string, locationID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if err := s.pairErr[itemID]; err != nil {
		return err
	}
	s.pairs[pairKey{itemID, locationID}] = struct{}{}
	return nil
}

func (s *fakeStore) MarkRemoved(ctx context.Context, id string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if err := s.removeErr[id]; err != nil {
		return false, err
	}
	item, ok := s.items[id]
	if !ok || item.removedAt != nil {
		return false, nil
	}
	item.removedAt = &at
	return true, nil
}

func (s *fakeStore) RecordCycle(ctx context.Context, report Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycles = append(s.cycles, report)
	return nil
}

func (s *fakeStore) removed(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	return ok && item.removedAt != nil
}

func (s *fakeStore) hasPair(itemID, location string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.locations[location]
	if !ok {
		return false
	}
	_, ok = s.pairs[pairKey{itemID, id}]
	return ok
}

// fakeSource returns a fixed record set or an error.
type fakeSource struct {
	records []inventory.Record
	err     error
	calls   int
}

func (f *fakeSource) FetchAll(ctx context.Context, q inventory.Query) ([]inventory.Record, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func record(id, location string) inventory.Record {
	return inventory.Record{
		ID:         id,
		Location:   location,
		Price:      50000,
		Attributes: inventory.Attributes{}.With("trim", "LRRWD").With("paint", "WHITE"),
	}
}
