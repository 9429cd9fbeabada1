// SPDX-License-Identifier: MIT

package quadtree

// landingNodes descends from the root for the given extent, pushing onto
// dst (reused across calls to avoid allocation) every node the extent
// should be attached to or removed from: at each interior node, if
// exactly one child's loose extent fully contains the extent, descend
// into it (if that child exists); otherwise the extent lands at the
// current node.
func (t *Tree) landingNodes(ext extent, dst []uint32) []uint32 {
	dst = dst[:0]
	var targets [4]int

	t.stack = t.stack[:0]
	t.stack = append(t.stack, stackFrame{nodeIdx: rootSlot, half: t.rootHalf})

	for len(t.stack) > 0 {
		top := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]

		n := t.nodes.get(top.nodeIdx)
		if !n.isLeaf() {
			count := childTargetsForExtent(top.half, ext, t.looseness, func(i int) halfExtent {
				return childHalfExtent(top.half, i)
			}, &targets)
			if count == 1 {
				childHalf := childHalfExtent(top.half, targets[0])
				if extentFitsInLooseHalf(childHalf, ext, t.looseness) {
					child := n.children[targets[0]]
					if child != 0 {
						t.stack = append(t.stack, stackFrame{nodeIdx: child, half: childHalf})
						continue
					}
				}
			}
			// Multi-target (or single target whose child doesn't exist
			// yet) extents stay at the current node.
		}

		dst = append(dst, top.nodeIdx)
	}

	return dst
}

// placeEntity attaches entityIdx to every node in landings, reusing an
// existing edge if one is already there, and sets up dedupe bookkeeping.
func (t *Tree) placeEntity(entityIdx uint32, landings []uint32) {
	e := t.entities.get(entityIdx)
	dedupe := len(landings) > 1

	for _, nodeIdx := range landings {
		n := t.nodes.get(nodeIdx)
		if edgeIdx, ok := t.edges.findInNode(n, entityIdx); ok {
			edge := t.edges.get(edgeIdx)
			edge.ext = e.ext
			edge.value = e.value
			edge.dedupe = dedupe
		} else {
			edgeIdx := t.edges.prepend(n, entityIdx, e.ext, e.value)
			t.edges.get(edgeIdx).dedupe = dedupe
		}
		if dedupe {
			n.hasDedupe = true
		}
	}

	e.inNodesMinusOne = uint32(len(landings) - 1)
}

// removeEntityFromNode unlinks the edge referencing entityIdx from node
// nodeIdx's list, if present, and frees the edge slot. Reports whether an
// edge was found and removed.
func (t *Tree) removeEntityFromNode(nodeIdx, entityIdx uint32) bool {
	n := t.nodes.get(nodeIdx)
	var prev uint32
	cur := n.head
	for cur != 0 {
		edge := t.edges.get(cur)
		next := edge.next
		if edge.index == entityIdx {
			if prev != 0 {
				t.edges.get(prev).next = next
			} else {
				n.head = next
			}
			if n.count > 0 {
				n.count--
			}
			t.edges.free(cur)
			return true
		}
		prev = cur
		cur = next
	}
	return false
}
