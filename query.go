// SPDX-License-Identifier: MIT

package quadtree

// queryShape is the internal, already-validated form of a caller's query
// region: always carries its bounding extent, plus exact shape data when
// the query itself is a circle (so entity hits can be shape-tested
// precisely rather than just bounding-box tested).
type queryShape struct {
	ext  extent
	kind ShapeKind
	circ circleData
}

func shapesOverlap(q queryShape, entKind ShapeKind, entExt extent, entCirc circleData) bool {
	switch q.kind {
	case ShapeRect:
		if entKind == ShapeRect {
			return rectOverlap(q.ext, entExt)
		}
		return circleExtentRaw(entCirc.x, entCirc.y, entCirc.r, entCirc.rSq, q.ext)
	default: // circle query
		if entKind == ShapeRect {
			return circleExtentRaw(q.circ.x, q.circ.y, q.circ.r, q.circ.rSq, entExt)
		}
		return circleCircleRaw(q.circ.x, q.circ.y, q.circ.r, entCirc.x, entCirc.y, entCirc.r)
	}
}

// QueryRect appends every entity overlapping rectangle r to dst (which
// may be nil) and returns the extended slice. If filter is non-nil, only
// entities whose type tag is in filter are reported.
func (t *Tree) QueryRect(r Rectangle, filter *EntityTypeFilter, dst []uint32) ([]uint32, error) {
	ext, err := extentFromRect(r)
	if err != nil {
		return dst, err
	}
	return t.queryExtent(queryShape{ext: ext, kind: ShapeRect}, filter, dst), nil
}

// QueryCircle appends every entity overlapping circle c to dst and
// returns the extended slice.
func (t *Tree) QueryCircle(c Circle, filter *EntityTypeFilter, dst []uint32) ([]uint32, error) {
	ext, circ, err := extentFromCircle(c)
	if err != nil {
		return dst, err
	}
	return t.queryExtent(queryShape{ext: ext, kind: ShapeCircle, circ: circ}, filter, dst), nil
}

// QueryRectBatch runs QueryRect for every rectangle in rects, returning
// one result slice per query in the same order. A single Update() call
// (if one is pending) is shared across the whole batch.
func (t *Tree) QueryRectBatch(rects []Rectangle, filter *EntityTypeFilter) ([][]uint32, error) {
	t.Update()
	out := make([][]uint32, len(rects))
	for i, r := range rects {
		ext, err := extentFromRect(r)
		if err != nil {
			return nil, err
		}
		out[i] = t.queryExtent(queryShape{ext: ext, kind: ShapeRect}, filter, nil)
	}
	return out, nil
}

// QueryCircleBatch runs QueryCircle for every circle in circles, returning
// one result slice per query in the same order.
func (t *Tree) QueryCircleBatch(circles []Circle, filter *EntityTypeFilter) ([][]uint32, error) {
	t.Update()
	out := make([][]uint32, len(circles))
	for i, c := range circles {
		ext, circ, err := extentFromCircle(c)
		if err != nil {
			return nil, err
		}
		out[i] = t.queryExtent(queryShape{ext: ext, kind: ShapeCircle, circ: circ}, filter, nil)
	}
	return out, nil
}

// queryExtent is the shared traversal for both QueryRect and QueryCircle.
// It brings the tree to a consistent state first, then walks every node
// whose loose extent overlaps the query, bounding-box-prefiltering each
// edge before the (possibly exact-shape) overlap test, and finally
// checks the large-entity side list in full.
func (t *Tree) queryExtent(q queryShape, filter *EntityTypeFilter, dst []uint32) []uint32 {
	t.Update()
	t.queryTick++

	skipFilter := filter == nil || filter.isUniversal(t.entities.liveTypes())

	var nodesVisited, entitiesHit uint64

	t.stack = t.stack[:0]
	t.stack = append(t.stack, stackFrame{nodeIdx: rootSlot, half: t.rootHalf})

	for len(t.stack) > 0 {
		top := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		nodesVisited++

		n := t.nodes.get(top.nodeIdx)
		for cur := n.head; cur != 0; {
			edge := t.edges.get(cur)
			next := edge.next

			if rectOverlap(q.ext, edge.ext) {
				e := t.entities.get(edge.index)
				if skipFilter || filter.Contains(e.entityType) {
					match := true
					if q.kind == ShapeCircle || e.shapeKind == ShapeCircle {
						match = shapesOverlap(q, e.shapeKind, edge.ext, e.circle)
					}
					if match && (!edge.dedupe || t.queryMarks[edge.index] != t.queryTick) {
						if edge.dedupe {
							t.queryMarks[edge.index] = t.queryTick
						}
						dst = append(dst, edge.value)
						entitiesHit++
					}
				}
			}
			cur = next
		}

		if !n.isLeaf() {
			for i := 0; i < 4; i++ {
				childHalf := childHalfExtent(top.half, i)
				loose := looseExtentFromHalf(childHalf, t.looseness)
				if rectOverlap(q.ext, loose) {
					t.stack = append(t.stack, stackFrame{nodeIdx: n.children[i], half: childHalf})
				}
			}
		}
	}

	for _, slot := range t.largeEntities {
		e := t.entities.get(slot)
		if !e.alive || !rectOverlap(q.ext, e.ext) {
			continue
		}
		if !skipFilter && !filter.Contains(e.entityType) {
			continue
		}
		match := true
		if q.kind == ShapeCircle || e.shapeKind == ShapeCircle {
			match = shapesOverlap(q, e.shapeKind, e.ext, e.circle)
		}
		if match {
			dst = append(dst, e.value)
			entitiesHit++
		}
	}

	t.stats.recordQuery(nodesVisited, entitiesHit)
	return dst
}
