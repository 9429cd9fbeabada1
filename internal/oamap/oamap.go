// SPDX-License-Identifier: MIT

// Package oamap provides a small open-addressing hash map used for
// the collision-pair dedupe set (internal/pairset), which is reset on
// every walk, and the owner map's hash-table fallback for values at or
// above the dense array limit.
//
// It is modeled on the hashing scheme in flier-goutil's
// pkg/arena/swiss.Map (a Swiss-table style map keyed and hashed through
// github.com/dolthub/maphash), but backed by plain Go slices instead of
// an unsafe arena allocator: callers here reuse one Map across many ticks
// via Reset, so the allocator-recycling the arena package exists for is
// unnecessary.
package oamap

import "github.com/dolthub/maphash"

const loadFactorNumerator, loadFactorDenominator = 3, 4

type slot[K comparable, V any] struct {
	key  K
	val  V
	used bool
}

// Map is an open-addressing hash map from K to V.
type Map[K comparable, V any] struct {
	hasher maphash.Hasher[K]
	slots  []slot[K, V]
	count  int
}

// New returns a Map sized for at least sizeHint entries before its first
// internal grow.
func New[K comparable, V any](sizeHint int) *Map[K, V] {
	n := 8
	for n < sizeHint*2 {
		n *= 2
	}
	return &Map[K, V]{
		hasher: maphash.NewHasher[K](),
		slots:  make([]slot[K, V], n),
	}
}

// Reset empties the map without releasing its backing array, so the same
// Map can be reused across many normalization passes with O(1) amortized
// allocation.
func (m *Map[K, V]) Reset() {
	for i := range m.slots {
		m.slots[i] = slot[K, V]{}
	}
	m.count = 0
}

func (m *Map[K, V]) Len() int { return m.count }

func (m *Map[K, V]) index(k K) int {
	return int(m.hasher.Hash(k) % uint64(len(m.slots)))
}

// Get returns the value stored for k, if any.
func (m *Map[K, V]) Get(k K) (V, bool) {
	i := m.index(k)
	for n := 0; n < len(m.slots); n++ {
		s := &m.slots[i]
		if !s.used {
			var zero V
			return zero, false
		}
		if s.key == k {
			return s.val, true
		}
		i = (i + 1) % len(m.slots)
	}
	var zero V
	return zero, false
}

// Set inserts or overwrites the value for k.
func (m *Map[K, V]) Set(k K, v V) {
	if (m.count+1)*loadFactorDenominator >= len(m.slots)*loadFactorNumerator {
		m.grow()
	}
	i := m.index(k)
	for {
		s := &m.slots[i]
		if !s.used {
			*s = slot[K, V]{key: k, val: v, used: true}
			m.count++
			return
		}
		if s.key == k {
			s.val = v
			return
		}
		i = (i + 1) % len(m.slots)
	}
}

func (m *Map[K, V]) grow() {
	old := m.slots
	m.slots = make([]slot[K, V], len(old)*2)
	m.count = 0
	for _, s := range old {
		if s.used {
			m.Set(s.key, s.val)
		}
	}
}

// Each calls fn for every stored entry, in unspecified order.
func (m *Map[K, V]) Each(fn func(K, V)) {
	for _, s := range m.slots {
		if s.used {
			fn(s.key, s.val)
		}
	}
}
