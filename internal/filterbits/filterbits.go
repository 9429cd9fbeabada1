// SPDX-License-Identifier: MIT

// Package filterbits backs EntityTypeFilter's dense representation: a
// fixed-size bit vector keyed by entity-type tag, for use when the tag
// set is at least one quarter dense up to 4096 distinct values. Uses
// github.com/bits-and-blooms/bitset as a flat (uncompressed) bit vector,
// since entity-type tags have no complete-binary-tree structure to
// exploit the way a popcount-compressed prefix/child tree would.
package filterbits

import "github.com/bits-and-blooms/bitset"

// Dense is a fixed-capacity dense bit vector over [0, limit).
type Dense struct {
	bits  *bitset.BitSet
	limit uint32
}

// NewDense returns a Dense bit vector capable of holding tags in
// [0, limit).
func NewDense(limit uint32) *Dense {
	return &Dense{bits: bitset.New(uint(limit)), limit: limit}
}

func (d *Dense) Set(tag uint32) {
	if tag < d.limit {
		d.bits.Set(uint(tag))
	}
}

func (d *Dense) Test(tag uint32) bool {
	if tag >= d.limit {
		return false
	}
	return d.bits.Test(uint(tag))
}

func (d *Dense) Count() uint {
	return d.bits.Count()
}
