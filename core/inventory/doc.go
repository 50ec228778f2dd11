// Package inventory defines the domain types shared by the collector:
// the normalized inventory record, the vendor query, raw pages and the
// error taxonomy used across the fetch and apply stages.
//
// # Records
//
// A Record is one observed item in the vendor catalog for the current cycle.
// Its identity is the ID; attributes, price and location may drift between
// cycles for the same ID.
//
// # Errors
//
// Fetch-stage failures (TransportError, ParseError) are cycle-fatal.
// Apply-stage failures (UnknownLocationError, StoreError) are local to the
// record or operation that produced them. All four wrap their cause so that
// errors.Is and errors.As see through them.
//
// # Usage
//
//	rec := inventory.Record{
//	    ID:       "LRW3F7EK4PC000001",
//	    Price:    61900,
//	    Location: "NSW",
//	}
//	rec.Attributes = rec.Attributes.With("paint", "Pearl White")
package inventory
