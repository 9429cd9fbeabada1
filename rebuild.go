// SPDX-License-Identifier: MIT

package quadtree

// rebuild walks the tree top-down, splitting leaves whose edge count
// reaches NodeCapacity and merging sibling groups that have collectively fallen
// under the merge threshold, then repartitions every touched leaf's edge
// list into its non-dedupe/dedupe halves. It runs at the end of every
// normalize() call, skipped only when the tree holds no entities.
//
// Periodically (every reorderPeriod rebuilds, once enough slots have
// gone stale) it first compacts the entity arena, squeezing out freed
// slots so iteration stays cache-friendly; the resulting slot renumbering
// is threaded through node-entity edges as the tree walk visits them.
func (t *Tree) rebuild() {
	if t.entities.aliveCount() == 0 {
		t.compactMap = nil
		return
	}

	t.compactMap = t.maybeCompact()
	t.rebuildNode(rootSlot, t.rootHalf, 0)
	t.compactMap = nil

	if t.cfg.ProfileSummary {
		t.logger.Debug("quadtree rebuild",
			"rebuild_count", t.rebuildCount,
			"nodes", t.nodes.len(),
			"entities", t.entities.aliveCount(),
			"large_entities", len(t.largeEntities),
		)
	}
}

func minDimOK(h halfExtent, minSize float32) bool {
	return h.w >= minSize && h.h >= minSize
}

func (t *Tree) rebuildNode(nodeIdx uint32, half halfExtent, depth uint32) {
	n := t.nodes.get(nodeIdx)
	if n.isLeaf() {
		if n.count >= uint32(t.cfg.NodeCapacity) && depth < t.cfg.MaxDepth && minDimOK(half, t.cfg.MinSize) {
			t.split(nodeIdx, half)
		} else {
			t.partitionDedupe(t.nodes.get(nodeIdx))
			return
		}
	}

	children := t.nodes.get(nodeIdx).children
	for i := 0; i < 4; i++ {
		t.rebuildNode(children[i], childHalfExtent(half, i), depth+1)
	}

	t.tryMerge(nodeIdx)

	n = t.nodes.get(nodeIdx)
	if n.isLeaf() {
		t.partitionDedupe(n)
	}
}

// split turns a leaf into an internal node with four fresh children and
// redistributes its edges: an edge whose extent fits wholly inside one
// child's loose extent moves down; everything else stays at nodeIdx.
func (t *Tree) split(nodeIdx uint32, half halfExtent) {
	n := t.nodes.get(nodeIdx)
	parentFlags := n.positionFlags

	var childSlots [4]uint32
	for i := 0; i < 4; i++ {
		childSlots[i] = t.nodes.alloc(childPositionFlags(parentFlags, i))
	}

	n = t.nodes.get(nodeIdx) // alloc may have grown the backing slice
	n.children = childSlots

	entriesPtr := t.scratch.Get()
	defer t.scratch.Put(entriesPtr)
	for cur := n.head; cur != 0; {
		e := t.edges.get(cur)
		*entriesPtr = append(*entriesPtr, cur)
		cur = e.next
	}
	n.head = 0
	n.count = 0

	var targets [4]int
	for _, edgeIdx := range *entriesPtr {
		e := t.edges.get(edgeIdx)
		count := childTargetsForExtent(half, e.ext, t.looseness, func(i int) halfExtent {
			return childHalfExtent(half, i)
		}, &targets)

		if count == 1 {
			childHalf := childHalfExtent(half, targets[0])
			if extentFitsInLooseHalf(childHalf, e.ext, t.looseness) {
				child := t.nodes.get(childSlots[targets[0]])
				e.next = child.head
				child.head = edgeIdx
				child.count++
				continue
			}
		}

		e.next = n.head
		n.head = edgeIdx
		n.count++
	}
}

// tryMerge collapses nodeIdx's four children back into it when they are
// all leaves and their combined edge count has fallen to or below the
// merge threshold.
func (t *Tree) tryMerge(nodeIdx uint32) {
	n := t.nodes.get(nodeIdx)
	if n.isLeaf() {
		return
	}

	total := 0
	for i := 0; i < 4; i++ {
		c := t.nodes.get(n.children[i])
		if !c.isLeaf() {
			return
		}
		total += int(c.count)
	}
	if total > t.cfg.mergeThreshold() {
		return
	}

	childSlots := n.children
	for i := 0; i < 4; i++ {
		c := t.nodes.get(childSlots[i])
		for cur := c.head; cur != 0; {
			e := t.edges.get(cur)
			next := e.next
			e.next = n.head
			n.head = cur
			n.count++
			cur = next
		}
		t.nodes.free(childSlots[i])
	}
	n.children = [4]uint32{}
}

// partitionDedupe reorders n's edge list into [non-dedupe..., dedupe...],
// records dedupeStart and hasDedupe, and remaps edge.index through any
// in-progress compaction.
func (t *Tree) partitionDedupe(n *node) {
	var nonDedupe, dedupe []uint32
	for cur := n.head; cur != 0; {
		e := t.edges.get(cur)
		next := e.next
		if t.compactMap != nil {
			e.index = t.compactMap[e.index]
		}
		if e.dedupe {
			dedupe = append(dedupe, cur)
		} else {
			nonDedupe = append(nonDedupe, cur)
		}
		cur = next
	}

	order := append(nonDedupe, dedupe...)
	t.edges.relink(n, order)
	n.dedupeStart = uint32(len(nonDedupe))
	n.hasDedupe = len(dedupe) > 0
}

// maybeCompact squeezes freed slots out of the entity arena once enough
// have accumulated, returning the old-slot -> new-slot mapping (nil if no
// compaction ran this rebuild).
func (t *Tree) maybeCompact() []uint32 {
	if t.reorderPeriod == 0 || (t.rebuildCount+1)%t.reorderPeriod != 0 {
		return nil
	}
	freeN := len(t.entities.freeList)
	if freeN == 0 || freeN < t.entities.aliveCnt/4 {
		return nil
	}

	mapping := make([]uint32, len(t.entities.entities))
	compacted := make([]entity, 1, t.entities.aliveCnt+1)
	for old := uint32(1); int(old) < len(t.entities.entities); old++ {
		e := &t.entities.entities[old]
		if !e.alive {
			continue
		}
		mapping[old] = uint32(len(compacted))
		compacted = append(compacted, *e)
	}
	t.entities.entities = compacted
	t.entities.freeList = t.entities.freeList[:0]

	for i, s := range t.largeEntities {
		t.largeEntities[i] = mapping[s]
	}

	for v, s := range t.owner.dense {
		if s != noSlot {
			t.owner.dense[v] = mapping[s]
		}
	}
	type change struct{ value, slot uint32 }
	var changes []change
	t.owner.hash.Each(func(value, slot uint32) {
		if slot != noSlot {
			changes = append(changes, change{value, mapping[slot]})
		}
	})
	for _, c := range changes {
		t.owner.hash.Set(c.value, c.slot)
	}

	return mapping
}
