package inventory

import (
	"errors"
	"fmt"
)

// Stage names used in error reports and log fields.
const (
	StageSnapshot     = "snapshot"
	StageFetch        = "fetch"
	StageParse        = "parse"
	StageItem         = "item"
	StageMetadata     = "metadata"
	StageLocation     = "location"
	StageItemLocation = "item_location"
	StageRemove       = "remove"
)

// ErrUnknownLocation is matched by every UnknownLocationError.
var ErrUnknownLocation = errors.New("unknown location")

// TransportError reports a failed page fetch.
type TransportError struct {
	Offset int
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch page at offset %d: %v", e.Offset, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports a malformed or unexpected page payload.
type ParseError struct {
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse page at offset %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnknownLocationError reports a record whose location is outside the fixed
// enumeration.
type UnknownLocationError struct {
	ItemID   string
	Location string
}

func (e *UnknownLocationError) Error() string {
	return fmt.Sprintf("item %s: unknown location %q", e.ItemID, e.Location)
}

func (e *UnknownLocationError) Is(target error) bool { return target == ErrUnknownLocation }

// StoreError reports a failed store operation for one identifier.
type StoreError struct {
	Stage  string
	ItemID string
	Err    error
}

func (e *StoreError) Error() string {
	if e.ItemID == "" {
		return fmt.Sprintf("store %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("store %s for item %s: %v", e.Stage, e.ItemID, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsFetchError reports whether err aborted the fetch stage of a cycle.
func IsFetchError(err error) bool {
	var te *TransportError
	var pe *ParseError
	return errors.As(err, &te) || errors.As(err, &pe)
}
