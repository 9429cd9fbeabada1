// SPDX-License-Identifier: MIT

package quadtree

import (
	"sync"
	"sync/atomic"
)

// scratchPool is a type-safe wrapper around sync.Pool, specialized for
// the []uint32 scratch buffers split and CollisionPairs borrow once per
// rebuilt node or traversed subtree.
//
// It tracks allocation and live-checkout counts for debugging and
// performance tuning.
type scratchPool struct {
	sync.Pool // embedded sync.Pool for *[]uint32

	// TODO: remove it once the code is stable.
	totalAllocated atomic.Int64
	currentLive    atomic.Int64
}

// newScratchPool creates a pool of []uint32 scratch buffers, each
// pre-sized to avoid the first few growth reallocations for typical
// node fanout.
func newScratchPool() *scratchPool {
	p := &scratchPool{}
	p.New = func() any {
		p.totalAllocated.Add(1) // TODO: remove it once the code is stable.
		buf := make([]uint32, 0, 64)
		return &buf
	}
	return p
}

// Get retrieves a zero-length *[]uint32 from the pool, or allocates one
// if the pool is empty. If the pool receiver is nil, a fresh buffer is
// returned without tracking.
func (p *scratchPool) Get() *[]uint32 {
	if p == nil {
		buf := make([]uint32, 0, 64)
		return &buf
	}
	p.currentLive.Add(1) // TODO: remove it once the code is stable.
	return p.Pool.Get().(*[]uint32)
}

// Put truncates buf to zero length and returns it to the pool for reuse.
// If the pool receiver is nil, buf is discarded.
func (p *scratchPool) Put(buf *[]uint32) {
	if p == nil {
		return
	}
	p.currentLive.Add(-1) // TODO: remove it once the code is stable.
	*buf = (*buf)[:0]
	p.Pool.Put(buf)
}

// Stats returns the number of currently checked-out buffers and the
// total number ever allocated by this pool.
//
// TODO: remove it once the code is stable.
func (p *scratchPool) Stats() (live int64, total int64) {
	if p == nil {
		return 0, 0
	}
	return p.currentLive.Load(), p.totalAllocated.Load()
}
