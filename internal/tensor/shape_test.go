package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeNumElements(t *testing.T) {
	assert.Equal(t, 24, Shape{2, 3, 4}.NumElements())
	assert.Equal(t, 5, Shape{5}.NumElements())
	assert.Equal(t, 1, Shape{}.NumElements())
}

func TestShapeValidate(t *testing.T) {
	assert.NoError(t, Shape{2, 3}.Validate())
	assert.NoError(t, Shape{}.Validate())
	assert.Error(t, Shape{2, 0}.Validate())
	assert.Error(t, Shape{-1, 3}.Validate())
}

func TestShapeComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())
	assert.Equal(t, []int{1}, Shape{7}.ComputeStrides())
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Shape
		want      Shape
		broadcast bool
	}{
		{"same", Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false},
		{"scalar", Shape{2, 3}, Shape{}, Shape{2, 3}, true},
		{"trailing", Shape{2, 3}, Shape{3}, Shape{2, 3}, true},
		{"column", Shape{4, 1}, Shape{1, 5}, Shape{4, 5}, true},
		{"rank", Shape{5, 2, 3}, Shape{2, 3}, Shape{5, 2, 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, broadcast, err := BroadcastShapes(tt.a, tt.b)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want))
			assert.Equal(t, tt.broadcast, broadcast)
		})
	}

	_, _, err := BroadcastShapes(Shape{2, 3}, Shape{4, 3})
	assert.Error(t, err)
}
