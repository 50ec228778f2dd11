// Package inventory exposes the tracked inventory over HTTP.
//
// The collector writes through feature/inventory/store; this package only
// reads. Routes are registered under /inventory by the feature loader.
//
// # HTTP Endpoints
//
//   - GET /inventory/availability : available items per location.
//   - GET /inventory/items/:id : one item with metadata, locations and timestamps.
//   - GET /inventory/cycles?limit=n : most recent cycle reports.
package inventory
