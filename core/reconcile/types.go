package reconcile

import (
	"context"
	"time"

	"inventory-tracker/core/inventory"
)

// Source returns the full record set of one cycle, or an error and nothing.
type Source interface {
	FetchAll(ctx context.Context, q inventory.Query) ([]inventory.Record, error)
}

// ItemOutcome describes what UpsertItem did.
type ItemOutcome int

const (
	// ItemUnchanged means the item already existed and was active.
	ItemUnchanged ItemOutcome = iota
	// ItemCreated means the item was inserted.
	ItemCreated
	// ItemReactivated means a removed item was observed again and its
	// removal timestamp was cleared.
	ItemReactivated
)

func (o ItemOutcome) String() string {
	switch o {
	case ItemCreated:
		return "created"
	case ItemReactivated:
		return "reactivated"
	default:
		return "unchanged"
	}
}

// MetadataWriter is the metadata half of the Store contract.
type MetadataWriter interface {
	// UpsertMetadata inserts metadata for an item; a conflicting row is left untouched.
	UpsertMetadata(ctx context.Context, m inventory.Metadata) error

	// OverwriteMetadata inserts metadata or replaces the existing row.
	OverwriteMetadata(ctx context.Context, m inventory.Metadata) error
}

// Store is the persistence contract consumed by the Reconciler.
// Every operation must be safe to call repeatedly with the same arguments.
type Store interface {
	MetadataWriter

	// ActiveIdentifiers returns the IDs of all items without a removal timestamp.
	ActiveIdentifiers(ctx context.Context) (map[string]struct{}, error)

	// UpsertItem inserts the item if absent. An existing removed item is
	// reactivated (removal cleared, creation time kept).
	UpsertItem(ctx context.Context, id string) (ItemOutcome, error)

	// UpsertLocation returns the stable ID of a location, creating it if absent.
	UpsertLocation(ctx context.Context, name string) (uint, error)

	// UpsertItemLocation associates an item with a location if not already associated.
	UpsertItemLocation(ctx context.Context, itemID string, locationID uint) error

	// MarkRemoved sets the removal timestamp if it is not set yet.
	// It reports whether this call set it.
	MarkRemoved(ctx context.Context, id string, at time.Time) (bool, error)
}

// CycleRecorder persists cycle reports. Stores may optionally implement it.
type CycleRecorder interface {
	RecordCycle(ctx context.Context, report Report) error
}

// Status is the terminal state of a cycle.
type Status string

const (
	// StatusSucceeded means the fetch completed and removals were applied.
	StatusSucceeded Status = "succeeded"
	// StatusFailed means the snapshot or fetch failed and nothing was written.
	StatusFailed Status = "failed"
	// StatusInterrupted means the cycle was cancelled while applying records.
	StatusInterrupted Status = "interrupted"
)

// Report summarizes one cycle.
type Report struct {
	// StartedAt is when the cycle began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the cycle ended.
	FinishedAt time.Time `json:"finished_at"`

	// Status is the terminal state of the cycle.
	Status Status `json:"status"`

	// ActiveBefore is the size of the active set snapshot.
	ActiveBefore int `json:"active_before"`

	// Records counts fetched records, duplicates included.
	Records int `json:"records"`

	// Seen counts distinct identifiers observed this cycle.
	Seen int `json:"seen"`

	// Created counts items inserted for the first time.
	Created int `json:"created"`

	// Reactivated counts previously removed items observed again.
	Reactivated int `json:"reactivated"`

	// Removed counts items newly marked removed.
	Removed int `json:"removed"`

	// UnknownLocations counts records whose location is outside the enumeration.
	UnknownLocations int `json:"unknown_locations"`

	// StoreErrors counts failed store operations.
	StoreErrors int `json:"store_errors"`

	// Skipped counts records without an identifier.
	Skipped int `json:"skipped"`

	// Error is the cycle-fatal error, if any.
	Error string `json:"error,omitempty"`
}

// Duration returns how long the cycle ran.
func (r Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
