package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"Int", 42, 42},
		{"Int64", int64(7), 7},
		{"Float", 61900.0, 61900},
		{"String", " 120 ", 120},
		{"Bytes", []byte("50"), 50},
		{"Garbage", "many", 0},
		{"Nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToInt(tt.in))
		})
	}
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool(true))
	assert.True(t, ToBool("TRUE"))
	assert.True(t, ToBool("1"))
	assert.True(t, ToBool(1))
	assert.False(t, ToBool("yes"))
	assert.False(t, ToBool(0))
	assert.False(t, ToBool(nil))
}
