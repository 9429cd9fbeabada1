// SPDX-License-Identifier: MIT

package quadtree

import "github.com/spatialidx/quadtree/internal/pairset"

// CollisionPairs calls visit once for every pair of entities whose shapes
// overlap, each pair reported exactly once (visit(a, b) implies visit is
// not also called with (b, a)). It brings the tree to a consistent state
// first.
//
// Two entities can only possibly overlap if they share a node or one is
// an ancestor of the other along the tree, which is what the traversal
// below tests; PairDedupe only comes into play when at least one side of
// a pair occupies more than one node (in_nodes_minus_one > 0), since
// that's the only way the same pair could otherwise be discovered twice.
func (t *Tree) CollisionPairs(visit func(a, b uint32)) {
	t.Update()
	t.pairDedupe.Reset()

	t.collectPairs(rootSlot, nil, visit)

	for i := 0; i < len(t.largeEntities); i++ {
		ea := t.entities.get(t.largeEntities[i])
		if !ea.alive {
			continue
		}
		for j := i + 1; j < len(t.largeEntities); j++ {
			eb := t.entities.get(t.largeEntities[j])
			if !eb.alive || !entitiesOverlap(ea, eb) {
				continue
			}
			visit(ea.value, eb.value)
			t.stats.recordPairs(1)
		}
	}

	if len(t.largeEntities) > 0 {
		t.queryTick++
		tick := t.queryTick
		t.forEachTreeEntity(func(slot uint32) {
			eb := t.entities.get(slot)
			for _, largeSlot := range t.largeEntities {
				ea := t.entities.get(largeSlot)
				if ea.alive && entitiesOverlap(ea, eb) {
					visit(ea.value, eb.value)
					t.stats.recordPairs(1)
				}
			}
		}, tick)
	}
}

// collectPairs walks the tree carrying the edges of every ancestor node
// (entities whose loose extent already spans down to this subtree),
// testing the current node's own entities pairwise and against that
// ancestor set, then recurses.
func (t *Tree) collectPairs(nodeIdx uint32, ancestors []uint32, visit func(a, b uint32)) {
	n := t.nodes.get(nodeIdx)

	herePtr := t.scratch.Get()
	defer t.scratch.Put(herePtr)
	for cur := n.head; cur != 0; {
		*herePtr = append(*herePtr, cur)
		cur = t.edges.get(cur).next
	}
	here := *herePtr

	for i := 0; i < len(here); i++ {
		for j := i + 1; j < len(here); j++ {
			t.maybeEmitPair(here[i], here[j], visit)
		}
	}
	for _, a := range ancestors {
		for _, h := range here {
			t.maybeEmitPair(a, h, visit)
		}
	}

	if n.isLeaf() {
		return
	}

	combinedPtr := t.scratch.Get()
	defer t.scratch.Put(combinedPtr)
	*combinedPtr = append(*combinedPtr, ancestors...)
	*combinedPtr = append(*combinedPtr, here...)
	combined := *combinedPtr

	children := n.children
	for i := 0; i < 4; i++ {
		t.collectPairs(children[i], combined, visit)
	}
}

func (t *Tree) maybeEmitPair(edgeAIdx, edgeBIdx uint32, visit func(a, b uint32)) {
	ea := t.edges.get(edgeAIdx)
	eb := t.edges.get(edgeBIdx)
	if ea.index == eb.index {
		return
	}
	entA := t.entities.get(ea.index)
	entB := t.entities.get(eb.index)
	if !entitiesOverlap(entA, entB) {
		return
	}

	if entA.inNodesMinusOne > 0 || entB.inNodesMinusOne > 0 {
		key := pairset.Key(ea.index, eb.index)
		if !t.pairDedupe.Insert(key) {
			return
		}
	}

	visit(entA.value, entB.value)
	t.stats.recordPairs(1)
}

// forEachTreeEntity visits every entity slot that owns at least one edge
// in the tree exactly once, using queryMarks (stamped with tick) to
// suppress the dedupe-partition duplicates.
func (t *Tree) forEachTreeEntity(visit func(slot uint32), tick uint32) {
	t.stack = t.stack[:0]
	t.stack = append(t.stack, stackFrame{nodeIdx: rootSlot})
	for len(t.stack) > 0 {
		top := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]

		n := t.nodes.get(top.nodeIdx)
		for cur := n.head; cur != 0; {
			e := t.edges.get(cur)
			if !e.dedupe || t.queryMarks[e.index] != tick {
				if e.dedupe {
					t.queryMarks[e.index] = tick
				}
				visit(e.index)
			}
			cur = e.next
		}
		if !n.isLeaf() {
			for i := 0; i < 4; i++ {
				if n.children[i] != 0 {
					t.stack = append(t.stack, stackFrame{nodeIdx: n.children[i]})
				}
			}
		}
	}
}

func entitiesOverlap(a, b *entity) bool {
	if a.shapeKind == ShapeRect && b.shapeKind == ShapeRect {
		return rectOverlap(a.ext, b.ext)
	}
	if a.shapeKind == ShapeCircle && b.shapeKind == ShapeCircle {
		return circleCircleRaw(a.circle.x, a.circle.y, a.circle.r, b.circle.x, b.circle.y, b.circle.r)
	}
	if a.shapeKind == ShapeCircle {
		return circleExtentRaw(a.circle.x, a.circle.y, a.circle.r, a.circle.rSq, b.ext)
	}
	return circleExtentRaw(b.circle.x, b.circle.y, b.circle.r, b.circle.rSq, a.ext)
}
