// SPDX-License-Identifier: MIT

// Package quadtree implements a loose quadtree spatial index for large,
// dynamic 2D scenes: hundreds of thousands of moving axis-aligned
// rectangles and circles, queried each simulation tick for range overlaps
// and colliding pairs.
//
// Structure mutations (Insert/Delete/Relocate*) only ever enqueue work;
// they never touch tree topology directly. Call Update once per tick to
// drain the queues and bring the tree back into a consistent, queryable
// state. Queries call Update implicitly if anything is still pending.
//
// A Tree is not safe for concurrent use: every method, queries included,
// may modify shared state (pending queues, traversal stack, query marks).
package quadtree

import (
	"log/slog"

	"github.com/spatialidx/quadtree/internal/pairset"
)

// normalizationState tracks how far the tree has drifted from a
// consistent, rebuilt state.
type normalizationState uint8

const (
	normNormal normalizationState = iota
	normSoft
	normHard
)

// nodeRemoval is a queued "detach entityIdx's edge from nodeIdx" operation,
// computed from an entity's pre-move extent while it is still known.
type nodeRemoval struct {
	nodeIdx   uint32
	entityIdx uint32
}

// stackFrame is one entry of the reusable traversal stack.
type stackFrame struct {
	nodeIdx uint32
	half    halfExtent
}

const rootSlot uint32 = 1

// Tree is a loose quadtree spatial index over a fixed root rectangle.
type Tree struct {
	_ noCopy

	cfg       Config
	rootHalf  halfExtent
	rootExt   extent
	looseness float32

	largeEntityThreshold float32 // 0 disables the large-entity side list

	nodes    *nodeArena
	entities *entityArena
	edges    *nodeEntityArena
	owner    *ownerMap

	insertions   []uint32
	removals     []uint32
	nodeRemovals []nodeRemoval
	reinsertions []uint32

	normalization normalizationState
	updatePending bool

	statusTick uint8
	updateTick uint8

	largeEntities []uint32 // entity slots living only on this side list

	queryTick  uint32
	queryMarks []uint32 // per entity slot, last query tick it was reported on

	stack       []stackFrame
	insertStack []stackFrame

	rebuildCount  uint64
	reorderPeriod uint64
	compactMap    []uint32 // set only during an in-progress compacting rebuild

	pairDedupe *pairset.Set
	scratch    *scratchPool

	stats  *queryStats
	logger *slog.Logger
}

// New constructs a Tree over the given root rectangle with cfg. The root
// must have finite, non-negative width and height.
func New(root Rectangle, cfg Config) (*Tree, error) {
	rootExt, err := extentFromRect(root)
	if err != nil {
		return nil, err
	}
	cfg = cfg.validate()

	rootHalf := halfFromExtent(rootExt)

	var largeThreshold float32
	if cfg.LargeEntityThresholdFactor > 0 {
		longer := rootHalf.w
		if rootHalf.h > longer {
			longer = rootHalf.h
		}
		largeThreshold = cfg.LargeEntityThresholdFactor * (2 * longer)
	}

	t := &Tree{
		cfg:                  cfg,
		rootHalf:             rootHalf,
		rootExt:              rootExt,
		looseness:            cfg.Looseness,
		largeEntityThreshold: largeThreshold,
		nodes:                newNodeArena(cfg.PoolSize),
		entities:             newEntityArena(cfg.PoolSize),
		edges:                newNodeEntityArena(cfg.PoolSize),
		owner:                newOwnerMap(),
		queryMarks:           make([]uint32, 1),
		pairDedupe:           pairset.New(64),
		scratch:              newScratchPool(),
		reorderPeriod:        64,
		logger:               slog.Default(),
	}
	t.stats = newQueryStats()

	// allocate the root node, slot 1, touching all four root borders.
	root1 := t.nodes.alloc(flagAll)
	if root1 != rootSlot {
		panic("quadtree: root node did not land on the reserved slot")
	}
	return t, nil
}

func (t *Tree) isLarge(e extent) bool {
	if t.largeEntityThreshold <= 0 {
		return false
	}
	w := e.maxX - e.minX
	h := e.maxY - e.minY
	return w >= t.largeEntityThreshold || h >= t.largeEntityThreshold
}

// InsertRect inserts value with rectangle shape r and the given entity
// type (use UntypedEntity for none). If value already owns a slot, the
// old slot is deleted and a fresh one is queued for insertion.
func (t *Tree) InsertRect(value uint32, r Rectangle, entityType uint32) error {
	ext, err := extentFromRect(r)
	if err != nil {
		return err
	}
	t.insert(value, ext, ShapeRect, circleData{}, entityType)
	return nil
}

// InsertCircle inserts value with circle shape c and the given entity type.
func (t *Tree) InsertCircle(value uint32, c Circle, entityType uint32) error {
	ext, circ, err := extentFromCircle(c)
	if err != nil {
		return err
	}
	t.insert(value, ext, ShapeCircle, circ, entityType)
	return nil
}

// UntypedEntity is the entity-type value meaning "no type tag".
const UntypedEntity = untypedType

func (t *Tree) insert(value uint32, ext extent, kind ShapeKind, circ circleData, entityType uint32) {
	if oldSlot, ok := t.owner.lookup(value); ok {
		t.removals = append(t.removals, oldSlot)
	}

	slot := t.entities.alloc()
	e := t.entities.get(slot)
	e.alive = true
	e.shapeKind = kind
	e.ext = ext
	e.value = value
	e.entityType = entityType
	e.circle = circ
	e.isLarge = t.isLarge(ext)
	t.entities.incType(entityType)
	t.growQueryMarks(slot)

	t.owner.set(value, slot)
	t.insertions = append(t.insertions, slot)
	t.normalization = normHard
}

// Delete removes value from the tree. It is a no-op if value is unknown.
func (t *Tree) Delete(value uint32) {
	slot, ok := t.owner.lookup(value)
	if !ok {
		return
	}
	t.owner.delete(value)
	t.removals = append(t.removals, slot)
	t.normalization = normHard
}

// RelocateRect updates value's shape in place to rectangle r, or inserts
// it fresh if value is unknown. typeUpdate controls the entity's type tag.
// It goes through RelocateRectExtent, so an extent outside the root
// bounds returns RectExtentOutOfBounds.
func (t *Tree) RelocateRect(value uint32, r Rectangle, typeUpdate EntityTypeUpdate) error {
	ext, err := extentFromRect(r)
	if err != nil {
		return err
	}
	return t.RelocateRectExtent(value, ext.minX, ext.minY, ext.maxX, ext.maxY, typeUpdate)
}

// RelocateCircle updates value's shape in place to circle c, or inserts it
// fresh if value is unknown. It goes through RelocateCircleRaw, so a
// circle whose extent leaves the root bounds returns RectExtentOutOfBounds.
func (t *Tree) RelocateCircle(value uint32, c Circle, typeUpdate EntityTypeUpdate) error {
	if _, _, err := extentFromCircle(c); err != nil {
		return err
	}
	return t.RelocateCircleRaw(value, c.X, c.Y, c.Radius, typeUpdate)
}

// RelocateRectExtent is a specialized overload of RelocateRect that skips
// rectangle-wrapper validation but still enforces the numeric invariants,
// and additionally requires the extent to lie inside the root bounds.
func (t *Tree) RelocateRectExtent(value uint32, minX, minY, maxX, maxY float32, typeUpdate EntityTypeUpdate) error {
	ext, err := extentFromMinMax(minX, minY, maxX, maxY)
	if err != nil {
		return err
	}
	if !rectContains(t.rootExt, ext) {
		return &RectExtentOutOfBounds{
			MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY,
			BoundsMinX: t.rootExt.minX, BoundsMinY: t.rootExt.minY,
			BoundsMaxX: t.rootExt.maxX, BoundsMaxY: t.rootExt.maxY,
		}
	}
	t.relocate(value, ext, ShapeRect, circleData{}, typeUpdate)
	return nil
}

// RelocateCircleRaw is a specialized overload of RelocateCircle that skips
// circle-wrapper validation but still enforces the numeric invariants, and
// additionally requires the circle's extent to lie inside the root bounds.
func (t *Tree) RelocateCircleRaw(value uint32, cx, cy, radius float32, typeUpdate EntityTypeUpdate) error {
	if err := validateCircleRadius(radius); err != nil {
		return err
	}
	ext := extent{minX: cx - radius, minY: cy - radius, maxX: cx + radius, maxY: cy + radius}
	if !rectContains(t.rootExt, ext) {
		return &RectExtentOutOfBounds{
			MinX: ext.minX, MinY: ext.minY, MaxX: ext.maxX, MaxY: ext.maxY,
			BoundsMinX: t.rootExt.minX, BoundsMinY: t.rootExt.minY,
			BoundsMaxX: t.rootExt.maxX, BoundsMaxY: t.rootExt.maxY,
		}
	}
	t.relocate(value, ext, ShapeCircle, newCircleData(cx, cy, radius), typeUpdate)
	return nil
}

func (t *Tree) relocate(value uint32, ext extent, kind ShapeKind, circ circleData, typeUpdate EntityTypeUpdate) {
	slot, ok := t.owner.lookup(value)
	if !ok {
		entityType := untypedType
		if typeUpdate.kind == typeUpdateSet {
			entityType = typeUpdate.typ
		}
		t.insert(value, ext, kind, circ, entityType)
		return
	}

	e := t.entities.get(slot)
	wasLarge := e.isLarge
	oldExt := e.ext
	moved := oldExt != ext

	e.ext = ext
	e.shapeKind = kind
	e.circle = circ

	switch typeUpdate.kind {
	case typeUpdateClear:
		if e.entityType != untypedType {
			t.entities.decType(e.entityType)
			e.entityType = untypedType
		}
	case typeUpdateSet:
		if e.entityType != typeUpdate.typ {
			if e.entityType != untypedType {
				t.entities.decType(e.entityType)
			}
			e.entityType = typeUpdate.typ
			t.entities.incType(e.entityType)
		}
	case typeUpdatePreserve:
		// no-op
	}

	e.statusChanged = t.statusTick
	t.updatePending = true

	if !moved {
		return
	}

	nowLarge := t.isLarge(ext)
	e.isLarge = nowLarge

	if !wasLarge {
		for _, nodeIdx := range t.landingNodes(oldExt, nil) {
			t.nodeRemovals = append(t.nodeRemovals, nodeRemoval{nodeIdx: nodeIdx, entityIdx: slot})
		}
	}
	t.reinsertions = append(t.reinsertions, slot)
	t.normalization = normHard
}

func (t *Tree) growQueryMarks(slot uint32) {
	if int(slot) >= len(t.queryMarks) {
		grown := make([]uint32, slot+1)
		copy(grown, t.queryMarks)
		t.queryMarks = grown
	}
}

// StorageCounts returns (#nodes, #node_entities, #entities) for
// introspection, matching the arena sizes rather than live counts.
func (t *Tree) StorageCounts() (nodes, nodeEntities, entities int) {
	return t.nodes.len(), len(t.edges.edges), t.entities.len()
}
