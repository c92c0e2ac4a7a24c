package atlas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreePushLookup(t *testing.T) {
	tree := NewTree()
	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, -1, tree.MaxDepth())
	assert.Equal(t, 0, tree.Count(0))

	// Pre-order: (0,0) (1,0) (2,0) (1,1)
	for _, c := range []Coord{{0, 0}, {1, 0}, {2, 0}, {1, 1}} {
		tree.Push(NewExpression(c.Depth, c.Index))
	}
	assert.Equal(t, 4, tree.Len())
	assert.Equal(t, 2, tree.MaxDepth())
	assert.Equal(t, 1, tree.Count(0))
	assert.Equal(t, 2, tree.Count(1))
	assert.Equal(t, 1, tree.Count(2))
	assert.Equal(t, 0, tree.Count(3))

	tests := []struct {
		coord Coord
		flat  int
	}{
		{Coord{0, 0}, 0},
		{Coord{1, 0}, 1},
		{Coord{2, 0}, 2},
		{Coord{1, 1}, 3},
	}
	for _, tt := range tests {
		i, err := tree.Offset(tt.coord.Depth, tt.coord.Index)
		require.NoError(t, err)
		assert.Equal(t, tt.flat, i, "offset of %v", tt.coord)

		e, err := tree.Lookup(tt.coord.Depth, tt.coord.Index)
		require.NoError(t, err)
		assert.Equal(t, tt.coord, e.Coord())
	}
}

func TestTreeOutOfRange(t *testing.T) {
	tree := NewTree()
	tree.Push(NewExpression(0, 0))
	tree.Push(NewExpression(1, 0))

	_, err := tree.Get(2)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = tree.Get(-1)
	require.ErrorIs(t, err, ErrOutOfRange)

	e, err := tree.Get(1)
	require.NoError(t, err)
	assert.Equal(t, Coord{1, 0}, e.Coord())

	for _, c := range []Coord{{1, 1}, {2, 0}, {-1, 0}, {0, -1}} {
		_, err := tree.Lookup(c.Depth, c.Index)
		assert.ErrorIs(t, err, ErrOutOfRange, "coordinate %v", c)
	}
}

func TestExpressionDelimiters(t *testing.T) {
	e := NewExpression(0, 0)
	assert.False(t, e.IsUnclosed())
	assert.False(t, e.IsClosed())
	_, ok := e.Opening()
	assert.False(t, ok)

	require.Error(t, e.Close(3), "close before open")

	require.NoError(t, e.Open(0))
	assert.True(t, e.IsUnclosed())
	require.Error(t, e.Open(1), "second opening delimiter")

	require.NoError(t, e.Close(4))
	assert.False(t, e.IsUnclosed())
	assert.True(t, e.IsClosed())
	require.Error(t, e.Close(5), "second closing delimiter")

	closing, ok := e.Closing()
	assert.True(t, ok)
	assert.Equal(t, 4, closing)
}
