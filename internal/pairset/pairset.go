// SPDX-License-Identifier: MIT

// Package pairset implements the growable open-addressed set of 64-bit
// keys the collision-pair walk uses to suppress duplicate pairs (a pair
// is only deduped when at least one endpoint has more than one node
// reference, so this set stays small relative to the number of entities).
package pairset

import "github.com/spatialidx/quadtree/internal/oamap"

// Key packs two entity slots into a single lookup key, high 32 bits
// holding the smaller of the two so (a,b) and (b,a) collide to the same key.
func Key(a, b uint32) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(a)<<32 | uint64(b)
}

// Set is an open-addressed set of uint64 pair keys.
type Set struct {
	m *oamap.Map[uint64, struct{}]
}

func New(sizeHint int) *Set {
	return &Set{m: oamap.New[uint64, struct{}](sizeHint)}
}

// Insert reports whether key was newly added (false means it was already
// present, i.e. this pair has already been emitted this walk).
func (s *Set) Insert(key uint64) bool {
	if _, ok := s.m.Get(key); ok {
		return false
	}
	s.m.Set(key, struct{}{})
	return true
}

// Reset clears the set for reuse on the next collision-pair walk.
func (s *Set) Reset() { s.m.Reset() }
