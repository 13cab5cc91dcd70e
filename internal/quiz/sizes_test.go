package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedSizes(t *testing.T) {
	tests := []struct {
		name string
		pool int
		want []int
	}{
		{"empty pool", 0, nil},
		{"one short of the minimum", 9, nil},
		{"at the minimum", 10, []int{5, 10}},
		{"between choices", 30, []int{5, 10, 25}},
		{"every size fits", 50, []int{5, 10, 25, 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AllowedSizes(tt.pool))
		})
	}
}

func TestSizeAllowed(t *testing.T) {
	assert.False(t, SizeAllowed(5, 9), "no size is valid below the minimum pool")
	assert.True(t, SizeAllowed(5, 10))
	assert.True(t, SizeAllowed(10, 10))
	assert.False(t, SizeAllowed(25, 10), "size cannot exceed the pool")
	assert.False(t, SizeAllowed(7, 50), "only the fixed choices are valid")
}
