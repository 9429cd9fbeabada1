// SPDX-License-Identifier: MIT

package quadtree

// Update drains all pending mutations (Insert/Delete/Relocate* calls
// since the last Update) and brings the tree back into a queryable,
// structurally consistent state. Queries call it implicitly, so most
// callers only need to call it once per simulation tick for determinism.
func (t *Tree) Update() {
	if t.normalization != normNormal {
		t.normalize()
	}
	if t.updatePending {
		t.statusTick++
		t.updateTick++
		t.updatePending = false
	}
}

// normalize drains the mutation queues in their load-bearing order —
// node removals, then reinsertions, then full removals, then fresh
// insertions — and finishes with a storage rebuild. Each step can only
// be processed correctly once the previous one has run: reinsertions
// must not see their own just-detached edges, removals must not free a
// slot a reinsertion still needs, and the rebuild must see the tree in
// its final logical shape for the tick.
func (t *Tree) normalize() {
	t.processNodeRemovals()
	t.processReinsertions()
	t.processRemovals()
	t.processInsertions()
	t.rebuild()

	t.normalization = normNormal
	t.rebuildCount++
}

func (t *Tree) processNodeRemovals() {
	for _, nr := range t.nodeRemovals {
		t.removeEntityFromNode(nr.nodeIdx, nr.entityIdx)
	}
	t.nodeRemovals = t.nodeRemovals[:0]
}

func (t *Tree) processReinsertions() {
	for _, slot := range t.reinsertions {
		e := t.entities.get(slot)
		if !e.alive {
			continue
		}
		if e.isLarge {
			t.addLarge(slot)
			e.inNodesMinusOne = 0
			continue
		}
		t.removeLarge(slot)
		landings := t.landingNodes(e.ext, nil)
		t.placeEntity(slot, landings)
	}
	t.reinsertions = t.reinsertions[:0]
}

func (t *Tree) processRemovals() {
	for _, slot := range t.removals {
		e := t.entities.get(slot)
		if !e.alive {
			continue
		}
		if e.isLarge {
			t.removeLarge(slot)
		} else {
			for _, nodeIdx := range t.landingNodes(e.ext, nil) {
				t.removeEntityFromNode(nodeIdx, slot)
			}
		}
		t.entities.free(slot)
	}
	t.removals = t.removals[:0]
}

func (t *Tree) processInsertions() {
	for _, slot := range t.insertions {
		e := t.entities.get(slot)
		if !e.alive {
			continue
		}
		if e.isLarge {
			t.addLarge(slot)
			e.inNodesMinusOne = 0
			continue
		}
		landings := t.landingNodes(e.ext, nil)
		t.placeEntity(slot, landings)
	}
	t.insertions = t.insertions[:0]
}

func (t *Tree) addLarge(slot uint32) {
	e := t.entities.get(slot)
	if e.inLargeList {
		return
	}
	e.inLargeList = true
	t.largeEntities = append(t.largeEntities, slot)
}

func (t *Tree) removeLarge(slot uint32) {
	e := t.entities.get(slot)
	if !e.inLargeList {
		return
	}
	e.inLargeList = false
	for i, s := range t.largeEntities {
		if s == slot {
			last := len(t.largeEntities) - 1
			t.largeEntities[i] = t.largeEntities[last]
			t.largeEntities = t.largeEntities[:last]
			break
		}
	}
}
