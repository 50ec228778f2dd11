package inventory

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributes_With(t *testing.T) {
	var attrs Attributes
	attrs = attrs.With("trim", "RWD")
	attrs = attrs.With("paint", "Pearl White")
	attrs = attrs.With("trim", "AWD")

	assert.Equal(t, Attributes{
		{Name: "trim", Value: "AWD"},
		{Name: "paint", Value: "Pearl White"},
	}, attrs, "existing attribute keeps its position")

	v, ok := attrs.Get("paint")
	assert.True(t, ok)
	assert.Equal(t, "Pearl White", v)

	_, ok = attrs.Get("wheels")
	assert.False(t, ok)
}

func TestRecord_Normalize(t *testing.T) {
	attrs := Attributes{{Name: " paint ", Value: " Ultra Red "}}
	rec := Record{ID: " VIN1 ", Location: " nsw", Attributes: attrs}

	got := rec.Normalize()

	assert.Equal(t, "VIN1", got.ID)
	assert.Equal(t, "NSW", got.Location)
	assert.Equal(t, Attributes{{Name: "paint", Value: "Ultra Red"}}, got.Attributes)
	assert.Equal(t, " paint ", attrs[0].Name, "input attributes must not be mutated")
}

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("connection reset")

	t.Run("TransportError", func(t *testing.T) {
		err := fmt.Errorf("cycle: %w", &TransportError{Offset: 50, Err: cause})
		assert.True(t, IsFetchError(err))
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "offset 50")
	})

	t.Run("ParseError", func(t *testing.T) {
		err := &ParseError{Offset: 0, Err: cause}
		assert.True(t, IsFetchError(err))
	})

	t.Run("UnknownLocationError", func(t *testing.T) {
		err := &UnknownLocationError{ItemID: "A", Location: "XX"}
		assert.ErrorIs(t, err, ErrUnknownLocation)
		assert.False(t, IsFetchError(err))
	})

	t.Run("StoreError", func(t *testing.T) {
		err := &StoreError{Stage: StageItem, ItemID: "A", Err: cause}
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "store item for item A: connection reset", err.Error())
		assert.False(t, IsFetchError(err))
	})
}
