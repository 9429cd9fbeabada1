// SPDX-License-Identifier: MIT

package quadtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityTypeFilterLinearRepr(t *testing.T) {
	f := NewEntityTypeFilter([]uint32{1, 2, 3})
	assert.Equal(t, filterLinear, f.repr)
	assert.True(t, f.Contains(2))
	assert.False(t, f.Contains(9))
}

func TestEntityTypeFilterDenseRepr(t *testing.T) {
	tags := make([]uint32, 0, 100)
	for i := uint32(0); i < 100; i++ {
		tags = append(tags, i)
	}
	f := NewEntityTypeFilter(tags)
	assert.Equal(t, filterDense, f.repr)
	assert.True(t, f.Contains(50))
	assert.False(t, f.Contains(200))
}

func TestEntityTypeFilterHashRepr(t *testing.T) {
	// Sparse over a wide span: falls below the dense-density threshold.
	tags := []uint32{0, 17, 4000, 4095, 20, 4050, 4080, 30, 40, 50, 60, 70, 80, 90, 100, 110, 120}
	f := NewEntityTypeFilter(tags)
	assert.Equal(t, filterHash, f.repr)
	assert.True(t, f.Contains(4000))
	assert.False(t, f.Contains(4001))
}

func TestEntityTypeFilterDedup(t *testing.T) {
	f := NewEntityTypeFilter([]uint32{1, 1, 2, 2, 3})
	assert.Equal(t, 3, f.size())
}

func TestEntityTypeFilterIsUniversal(t *testing.T) {
	f := NewEntityTypeFilter([]uint32{1, 2, 3})
	assert.True(t, f.isUniversal(map[uint32]int{1: 2, 2: 1}))
	assert.False(t, f.isUniversal(map[uint32]int{1: 2, 9: 1}))
	assert.True(t, f.isUniversal(map[uint32]int{}))
}
