package models

import (
	"time"

	"inventory-tracker/core/inventory"
)

// AvailabilityView is the name of the items × locations availability view.
const AvailabilityView = "item_availability"

// Item is one tracked inventory item. RemovedAt is set once when the item
// stops appearing in the vendor listing and cleared if it reappears.
type Item struct {
	ID        string     `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	CreatedAt time.Time  `gorm:"column:created_at;not null" json:"created_at"`
	RemovedAt *time.Time `gorm:"column:removed_at;index" json:"removed_at,omitempty"`
}

// TableName overrides the table name.
func (Item) TableName() string {
	return "items"
}

// ItemMetadata holds the attributes and price of an item. There is at most
// one row per item.
type ItemMetadata struct {
	ID         uint                 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ItemID     string               `gorm:"column:item_id;type:varchar(64);uniqueIndex;not null" json:"item_id"`
	Attributes inventory.Attributes `gorm:"column:attributes;serializer:json" json:"attributes"`
	Price      int64                `gorm:"column:price;not null" json:"price"`
	CreatedAt  time.Time            `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time            `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name.
func (ItemMetadata) TableName() string {
	return "item_metadata"
}

// Location is one region of the fixed location enumeration.
type Location struct {
	ID   uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:name;type:varchar(32);uniqueIndex;not null" json:"name"`
}

// TableName overrides the table name.
func (Location) TableName() string {
	return "locations"
}

// ItemLocation associates an item with a location it was listed in.
type ItemLocation struct {
	ItemID     string    `gorm:"column:item_id;type:varchar(64);primaryKey" json:"item_id"`
	LocationID uint      `gorm:"column:location_id;primaryKey;autoIncrement:false" json:"location_id"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name.
func (ItemLocation) TableName() string {
	return "item_locations"
}

// CycleRun is the persisted report of one collection cycle.
type CycleRun struct {
	ID               uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	StartedAt        time.Time `gorm:"column:started_at;index" json:"started_at"`
	FinishedAt       time.Time `gorm:"column:finished_at" json:"finished_at"`
	Status           string    `gorm:"column:status;type:varchar(16)" json:"status"`
	ActiveBefore     int       `gorm:"column:active_before" json:"active_before"`
	Records          int       `gorm:"column:records" json:"records"`
	Seen             int       `gorm:"column:seen" json:"seen"`
	Created          int       `gorm:"column:created" json:"created"`
	Reactivated      int       `gorm:"column:reactivated" json:"reactivated"`
	Removed          int       `gorm:"column:removed" json:"removed"`
	UnknownLocations int       `gorm:"column:unknown_locations" json:"unknown_locations"`
	StoreErrors      int       `gorm:"column:store_errors" json:"store_errors"`
	Skipped          int       `gorm:"column:skipped" json:"skipped"`
	Error            string    `gorm:"column:error;type:text" json:"error,omitempty"`
}

// TableName overrides the table name.
func (CycleRun) TableName() string {
	return "cycle_runs"
}

// All returns every table model in migration order.
func All() []any {
	return []any{&Item{}, &ItemMetadata{}, &Location{}, &ItemLocation{}, &CycleRun{}}
}

// LocationAvailability is the number of available items in one location.
type LocationAvailability struct {
	Location  string `json:"location"`
	Available int64  `json:"available"`
}

// ItemDetail is an item with its metadata and the locations it was listed in.
type ItemDetail struct {
	Item
	Metadata  *ItemMetadata `json:"metadata,omitempty"`
	Locations []string      `json:"locations"`
}
