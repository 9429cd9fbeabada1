// SPDX-License-Identifier: MIT

package quadtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwnerMapDenseRoundTrip(t *testing.T) {
	m := newOwnerMap()
	m.set(5, 42)
	slot, ok := m.lookup(5)
	assert.True(t, ok)
	assert.Equal(t, uint32(42), slot)

	m.delete(5)
	_, ok = m.lookup(5)
	assert.False(t, ok)
}

func TestOwnerMapHashFallback(t *testing.T) {
	m := newOwnerMap()
	big := uint32(denseOwnerLimit + 7)
	m.set(big, 99)

	slot, ok := m.lookup(big)
	assert.True(t, ok)
	assert.Equal(t, uint32(99), slot)

	m.delete(big)
	_, ok = m.lookup(big)
	assert.False(t, ok)
}

func TestOwnerMapLookupMissing(t *testing.T) {
	m := newOwnerMap()
	_, ok := m.lookup(123)
	assert.False(t, ok)
}
