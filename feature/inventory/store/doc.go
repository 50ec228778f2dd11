// Package store persists inventory state with GORM.
//
// GormStore implements the reconciler's Store contract. Inserts use
// ON CONFLICT DO NOTHING (ON DUPLICATE KEY on mysql) so that repeated calls
// are no-ops; removal is an UPDATE guarded by removed_at IS NULL, which makes
// the removal timestamp set-once. A removed item that is observed again has
// its removal cleared and keeps its original created_at.
//
// Location IDs are cached in memory behind a singleflight group since
// location rows are never deleted.
//
// Migrate creates the tables, the item_availability view and seeds the
// configured locations. The read queries (Availability, Item, Cycles) back
// the status API.
package store
