// Package models defines the GORM models of the inventory schema and the
// read models returned by the status API.
//
// Tables: items, item_metadata, locations, item_locations and cycle_runs.
// The item_availability view joins items with every location and flags the
// pairs where an active item is currently listed.
package models
