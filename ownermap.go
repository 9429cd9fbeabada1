// SPDX-License-Identifier: MIT

package quadtree

import "github.com/spatialidx/quadtree/internal/oamap"

// denseOwnerLimit is the value below which the owner map uses a dense
// array instead of the hash-table fallback.
const denseOwnerLimit = 1 << 20 // ~10^6

const noSlot = uint32(0)

// ownerMap maps caller-given values to entity slots. Values below
// denseOwnerLimit are served by a dense array (O(1), no hashing); the
// rest fall back to an open-addressed hash table.
type ownerMap struct {
	dense []uint32 // dense[v] == noSlot means absent
	hash  *oamap.Map[uint32, uint32]
}

func newOwnerMap() *ownerMap {
	return &ownerMap{hash: oamap.New[uint32, uint32](64)}
}

func (m *ownerMap) lookup(value uint32) (uint32, bool) {
	if value < denseOwnerLimit {
		if int(value) >= len(m.dense) {
			return 0, false
		}
		slot := m.dense[value]
		return slot, slot != noSlot
	}
	slot, ok := m.hash.Get(value)
	if !ok || slot == noSlot {
		return 0, false
	}
	return slot, true
}

func (m *ownerMap) set(value, slot uint32) {
	if value < denseOwnerLimit {
		if int(value) >= len(m.dense) {
			grown := make([]uint32, value+1)
			copy(grown, m.dense)
			m.dense = grown
		}
		m.dense[value] = slot
		return
	}
	m.hash.Set(value, slot)
}

func (m *ownerMap) delete(value uint32) {
	if value < denseOwnerLimit {
		if int(value) < len(m.dense) {
			m.dense[value] = noSlot
		}
		return
	}
	m.hash.Set(value, noSlot)
}
