package inventory

import "strings"

// Attribute is a single named attribute of an item (e.g. paint, wheels).
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Attributes is an ordered list of attributes. Order is the order in which
// the parser emitted them and is preserved through persistence.
type Attributes []Attribute

// Get returns the value of the named attribute.
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// With returns a copy of the list with the named attribute set.
// An existing attribute keeps its position.
func (a Attributes) With(name, value string) Attributes {
	out := make(Attributes, len(a), len(a)+1)
	copy(out, a)
	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
			return out
		}
	}
	return append(out, Attribute{Name: name, Value: value})
}

// Record is one observed item in the vendor's catalog for the current cycle.
type Record struct {
	// ID is the stable external identifier (e.g. a VIN).
	ID string `json:"id"`
	// Attributes holds the item options in vendor order.
	Attributes Attributes `json:"attributes"`
	// Price is expressed in whole currency units.
	Price int64 `json:"price"`
	// Location is the region identifier (e.g. "NSW").
	Location string `json:"location"`
}

// Normalize trims whitespace and upper-cases the location so that records
// from different transports compare equal.
func (r Record) Normalize() Record {
	r.ID = strings.TrimSpace(r.ID)
	r.Location = strings.ToUpper(strings.TrimSpace(r.Location))
	if r.Attributes != nil {
		attrs := make(Attributes, len(r.Attributes))
		for i, attr := range r.Attributes {
			attrs[i] = Attribute{Name: strings.TrimSpace(attr.Name), Value: strings.TrimSpace(attr.Value)}
		}
		r.Attributes = attrs
	}
	return r
}

// Metadata is the per-item metadata row written by the reconciler.
type Metadata struct {
	ItemID     string
	Attributes Attributes
	Price      int64
}

// MetadataOf extracts the metadata portion of a record.
func MetadataOf(r Record) Metadata {
	return Metadata{ItemID: r.ID, Attributes: r.Attributes, Price: r.Price}
}
