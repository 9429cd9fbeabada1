// SPDX-License-Identifier: MIT

package quadtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree(t *testing.T) *Tree {
	t.Helper()
	tr, err := New(Rectangle{X: 500, Y: 500, Width: 1000, Height: 1000}, DefaultConfig())
	require.NoError(t, err)
	return tr
}

func TestSingleCollision(t *testing.T) {
	tr := newTestTree(t)
	require.NoError(t, tr.InsertRect(1, Rectangle{X: 10, Y: 10, Width: 4, Height: 4}, UntypedEntity))
	require.NoError(t, tr.InsertRect(2, Rectangle{X: 11, Y: 11, Width: 4, Height: 4}, UntypedEntity))
	require.NoError(t, tr.InsertRect(3, Rectangle{X: 500, Y: 500, Width: 2, Height: 2}, UntypedEntity))

	var pairs [][2]uint32
	tr.CollisionPairs(func(a, b uint32) {
		if a > b {
			a, b = b, a
		}
		pairs = append(pairs, [2]uint32{a, b})
	})

	require.Len(t, pairs, 1)
	assert.Equal(t, [2]uint32{1, 2}, pairs[0])
}

func TestHugeBoundsEntity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LargeEntityThresholdFactor = 0.5
	tr, err := New(Rectangle{X: 500, Y: 500, Width: 1000, Height: 1000}, cfg)
	require.NoError(t, err)

	// A huge entity spanning most of the root goes on the side list.
	require.NoError(t, tr.InsertRect(1, Rectangle{X: 500, Y: 500, Width: 900, Height: 900}, UntypedEntity))
	require.NoError(t, tr.InsertRect(2, Rectangle{X: 400, Y: 400, Width: 4, Height: 4}, UntypedEntity))

	tr.Update()
	assert.Len(t, tr.largeEntities, 1)

	results, err := tr.QueryRect(Rectangle{X: 400, Y: 400, Width: 4, Height: 4}, nil, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint32{1, 2}, results)
}

func TestMultipleOverlappingRectangles(t *testing.T) {
	tr := newTestTree(t)
	for i := uint32(1); i <= 5; i++ {
		x := float32(10 * i)
		require.NoError(t, tr.InsertRect(i, Rectangle{X: x, Y: 0, Width: 12, Height: 12}, UntypedEntity))
	}

	var pairs int
	tr.CollisionPairs(func(a, b uint32) { pairs++ })
	// Each consecutive pair (1,2) (2,3) (3,4) (4,5) overlaps; non-adjacent don't.
	assert.Equal(t, 4, pairs)
}

func TestRelocationMovesEntity(t *testing.T) {
	tr := newTestTree(t)
	require.NoError(t, tr.InsertRect(1, Rectangle{X: 10, Y: 10, Width: 2, Height: 2}, UntypedEntity))

	results, err := tr.QueryRect(Rectangle{X: 10, Y: 10, Width: 4, Height: 4}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1}, results)

	require.NoError(t, tr.RelocateRect(1, Rectangle{X: 900, Y: 900, Width: 2, Height: 2}, PreserveType()))

	results, err = tr.QueryRect(Rectangle{X: 10, Y: 10, Width: 4, Height: 4}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = tr.QueryRect(Rectangle{X: 900, Y: 900, Width: 4, Height: 4}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1}, results)
}

func TestReplaceOnDuplicateValue(t *testing.T) {
	tr := newTestTree(t)
	require.NoError(t, tr.InsertRect(1, Rectangle{X: 10, Y: 10, Width: 2, Height: 2}, UntypedEntity))
	require.NoError(t, tr.InsertRect(1, Rectangle{X: 500, Y: 500, Width: 2, Height: 2}, UntypedEntity))

	results, err := tr.QueryRect(Rectangle{X: 10, Y: 10, Width: 4, Height: 4}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = tr.QueryRect(Rectangle{X: 500, Y: 500, Width: 4, Height: 4}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1}, results)

	nodes, _, entities := tr.StorageCounts()
	assert.GreaterOrEqual(t, nodes, 1)
	assert.GreaterOrEqual(t, entities, 2) // old slot retired but arena slot count includes it
}

func TestBatchQueries(t *testing.T) {
	tr := newTestTree(t)
	require.NoError(t, tr.InsertRect(1, Rectangle{X: 10, Y: 10, Width: 2, Height: 2}, UntypedEntity))
	require.NoError(t, tr.InsertRect(2, Rectangle{X: 500, Y: 500, Width: 2, Height: 2}, UntypedEntity))

	results, err := tr.QueryRectBatch([]Rectangle{
		{X: 10, Y: 10, Width: 4, Height: 4},
		{X: 500, Y: 500, Width: 4, Height: 4},
		{X: 900, Y: 900, Width: 4, Height: 4},
	}, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []uint32{1}, results[0])
	assert.Equal(t, []uint32{2}, results[1])
	assert.Empty(t, results[2])
}

func TestQueryDedupeAcrossNodes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NodeCapacity = 2
	cfg.Looseness = 1.0
	tr, err := New(Rectangle{X: 500, Y: 500, Width: 1000, Height: 1000}, cfg)
	require.NoError(t, err)

	// Force a split, with an entity straddling the center that stays at
	// the root while the others move down into child nodes; a root-sized
	// query then walks every node.
	require.NoError(t, tr.InsertRect(1, Rectangle{X: 200, Y: 200, Width: 10, Height: 10}, UntypedEntity))
	require.NoError(t, tr.InsertRect(2, Rectangle{X: 800, Y: 800, Width: 10, Height: 10}, UntypedEntity))
	require.NoError(t, tr.InsertRect(3, Rectangle{X: 300, Y: 300, Width: 10, Height: 10}, UntypedEntity))
	require.NoError(t, tr.InsertRect(4, Rectangle{X: 500, Y: 500, Width: 600, Height: 600}, UntypedEntity))

	results, err := tr.QueryRect(Rectangle{X: 500, Y: 500, Width: 1000, Height: 1000}, nil, nil)
	require.NoError(t, err)

	seen := map[uint32]int{}
	for _, v := range results {
		seen[v]++
	}
	for v, n := range seen {
		assert.Equal(t, 1, n, "value %d reported more than once", v)
	}
}

func TestEntityTypeUpdateClearAndSet(t *testing.T) {
	tr := newTestTree(t)
	require.NoError(t, tr.InsertRect(1, Rectangle{X: 10, Y: 10, Width: 2, Height: 2}, 7))
	assert.Equal(t, 1, tr.entities.typeCount[7])

	require.NoError(t, tr.RelocateRect(1, Rectangle{X: 10, Y: 10, Width: 2, Height: 2}, SetType(9)))
	assert.Equal(t, 0, tr.entities.typeCount[7])
	assert.Equal(t, 1, tr.entities.typeCount[9])

	require.NoError(t, tr.RelocateRect(1, Rectangle{X: 10, Y: 10, Width: 2, Height: 2}, ClearType()))
	assert.Equal(t, 0, tr.entities.typeCount[9])
}

func TestDeleteIsNoOpForUnknownValue(t *testing.T) {
	tr := newTestTree(t)
	tr.Delete(42) // must not panic
	tr.Update()
}

func TestCircleQuery(t *testing.T) {
	tr := newTestTree(t)
	require.NoError(t, tr.InsertCircle(1, Circle{X: 100, Y: 100, Radius: 5}, UntypedEntity))
	require.NoError(t, tr.InsertRect(2, Rectangle{X: 103, Y: 100, Width: 4, Height: 4}, UntypedEntity))
	require.NoError(t, tr.InsertRect(3, Rectangle{X: 500, Y: 500, Width: 4, Height: 4}, UntypedEntity))

	results, err := tr.QueryCircle(Circle{X: 100, Y: 100, Radius: 6}, nil, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint32{1, 2}, results)
}

func TestInvalidShapesRejected(t *testing.T) {
	tr := newTestTree(t)
	err := tr.InsertRect(1, Rectangle{X: 0, Y: 0, Width: -1, Height: 1}, UntypedEntity)
	require.Error(t, err)
	var dimsErr *InvalidRectangleDims
	require.ErrorAs(t, err, &dimsErr)

	err = tr.InsertCircle(2, Circle{X: 0, Y: 0, Radius: -1}, UntypedEntity)
	require.Error(t, err)
	var radErr *InvalidCircleRadius
	require.ErrorAs(t, err, &radErr)
}

func TestRelocateRectExtentOutOfBounds(t *testing.T) {
	tr := newTestTree(t)
	err := tr.RelocateRectExtent(1, -500, -500, -480, -480, PreserveType())
	require.Error(t, err)
	var boundsErr *RectExtentOutOfBounds
	require.ErrorAs(t, err, &boundsErr)
}
