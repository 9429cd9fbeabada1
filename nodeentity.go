// SPDX-License-Identifier: MIT

package quadtree

// nodeEntity is one edge from a node to an entity. dedupe marks the edges
// of an entity attached to more than one node, so queries report the
// entity at most once. landingNodes places an extent that straddles
// several children at their common parent, so each entity placed through
// it has a single edge.
type nodeEntity struct {
	index  uint32 // entity slot
	dedupe bool

	ext   extent // cached copy of the entity's extent, for cache-friendly leaf scans
	value uint32 // cached copy of the entity's caller-given value

	next uint32 // next edge in the owning node's singly-linked list, 0 = end
}

// nodeEntityArena is the arena of edges, with a free list of retired slots.
type nodeEntityArena struct {
	edges    []nodeEntity
	freeList []uint32
}

func newNodeEntityArena(capacityHint int) *nodeEntityArena {
	return &nodeEntityArena{edges: make([]nodeEntity, 1, max1(capacityHint, 1))}
}

func (a *nodeEntityArena) get(idx uint32) *nodeEntity {
	return &a.edges[idx]
}

func (a *nodeEntityArena) alloc() uint32 {
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		a.edges[idx] = nodeEntity{}
		return idx
	}
	a.edges = append(a.edges, nodeEntity{})
	return uint32(len(a.edges) - 1)
}

func (a *nodeEntityArena) free(idx uint32) {
	a.edges[idx] = nodeEntity{}
	a.freeList = append(a.freeList, idx)
}

// prepend inserts a new edge for entityIdx at the head of node n's list,
// returning the new edge's arena slot.
func (a *nodeEntityArena) prepend(n *node, entityIdx uint32, ext extent, value uint32) uint32 {
	idx := a.alloc()
	e := a.get(idx)
	e.index = entityIdx
	e.ext = ext
	e.value = value
	e.next = n.head
	n.head = idx
	n.count++
	return idx
}

// relink rewrites node n's linked list to visit order, in order.
func (a *nodeEntityArena) relink(n *node, order []uint32) {
	if len(order) == 0 {
		n.head = 0
		return
	}
	n.head = order[0]
	for i := 0; i < len(order)-1; i++ {
		a.get(order[i]).next = order[i+1]
	}
	a.get(order[len(order)-1]).next = 0
}

// findInNode linearly scans node n's list for an edge referencing
// entityIdx, returning its slot and true if found.
func (a *nodeEntityArena) findInNode(n *node, entityIdx uint32) (uint32, bool) {
	cur := n.head
	for cur != 0 {
		e := a.get(cur)
		if e.index == entityIdx {
			return cur, true
		}
		cur = e.next
	}
	return 0, false
}
