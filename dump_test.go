// SPDX-License-Identifier: MIT

package quadtree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpReflectsInsertedValues(t *testing.T) {
	tr := newTestTree(t)
	require.NoError(t, tr.InsertRect(1, Rectangle{X: 10, Y: 10, Width: 2, Height: 2}, UntypedEntity))
	require.NoError(t, tr.InsertRect(2, Rectangle{X: 900, Y: 900, Width: 2, Height: 2}, UntypedEntity))

	root := tr.Dump()
	assert.InDelta(t, 0, root.MinX, 0.001)
	assert.InDelta(t, 1000, root.MaxX, 0.001)

	var collect func(n DumpNode) []uint32
	collect = func(n DumpNode) []uint32 {
		vals := append([]uint32(nil), n.Values...)
		for _, c := range n.Children {
			vals = append(vals, collect(c)...)
		}
		return vals
	}
	assert.ElementsMatch(t, []uint32{1, 2}, collect(root))
}

func TestStringContainsEntityCount(t *testing.T) {
	tr := newTestTree(t)
	require.NoError(t, tr.InsertRect(1, Rectangle{X: 10, Y: 10, Width: 2, Height: 2}, UntypedEntity))

	s := tr.String()
	assert.True(t, strings.Contains(s, "1 entities"))
}

func TestAllShapesRoundTrips(t *testing.T) {
	tr := newTestTree(t)
	require.NoError(t, tr.InsertRect(1, Rectangle{X: 10, Y: 20, Width: 4, Height: 6}, UntypedEntity))
	require.NoError(t, tr.InsertCircle(2, Circle{X: 50, Y: 50, Radius: 3}, UntypedEntity))

	shapes := tr.AllShapes(nil)
	require.Len(t, shapes, 2)

	byValue := map[uint32]ShapeSnapshot{}
	for _, s := range shapes {
		byValue[s.Value] = s
	}
	assert.Equal(t, ShapeRect, byValue[1].Kind)
	assert.InDelta(t, 10, byValue[1].Rect.X, 0.001)
	assert.Equal(t, ShapeCircle, byValue[2].Kind)
	assert.InDelta(t, 3, byValue[2].Circ.Radius, 0.001)
}

func TestQueryStatsAccumulate(t *testing.T) {
	tr := newTestTree(t)
	require.NoError(t, tr.InsertRect(1, Rectangle{X: 10, Y: 10, Width: 2, Height: 2}, UntypedEntity))

	_, err := tr.QueryRect(Rectangle{X: 10, Y: 10, Width: 4, Height: 4}, nil, nil)
	require.NoError(t, err)

	snap := tr.TakeQueryStats()
	assert.Equal(t, uint64(1), snap.Queries)
	assert.Equal(t, uint64(1), snap.EntitiesHit)
}
