// SPDX-License-Identifier: MIT

package quadtree

// untypedType is the sentinel entity_type value meaning "no type tag".
const untypedType = ^uint32(0)

// EntityTypeUpdate describes how relocate should change an entity's type
// tag: leave it alone, clear it to untyped, or set it to a new value.
type EntityTypeUpdate struct {
	kind typeUpdateKind
	typ  uint32
}

type typeUpdateKind uint8

const (
	typeUpdatePreserve typeUpdateKind = iota
	typeUpdateClear
	typeUpdateSet
)

// PreserveType leaves an entity's current type tag unchanged.
func PreserveType() EntityTypeUpdate { return EntityTypeUpdate{kind: typeUpdatePreserve} }

// ClearType removes an entity's type tag (it becomes untyped).
func ClearType() EntityTypeUpdate { return EntityTypeUpdate{kind: typeUpdateClear} }

// SetType assigns a new type tag to an entity.
func SetType(t uint32) EntityTypeUpdate { return EntityTypeUpdate{kind: typeUpdateSet, typ: t} }

// entity is the arena-indexed per-logical-object record. Slot 0 is reserved.
type entity struct {
	alive           bool
	shapeKind       ShapeKind
	isLarge         bool
	inLargeList     bool
	inNodesMinusOne uint32

	// small versioned flags: relocate stamps statusChanged with the
	// tree's statusTick; updateTick and reinsertionTick are never set,
	// and no pass compares any of the three against the tree's ticks.
	updateTick      uint8
	reinsertionTick uint8
	statusChanged   uint8

	ext        extent
	value      uint32
	entityType uint32 // untypedType if untyped
	circle     circleData

	nextFree uint32
}

// entityArena owns the entity slots plus the free list used to recycle
// deleted slots.
type entityArena struct {
	entities  []entity
	freeList  []uint32
	aliveCnt  int
	typeCount map[uint32]int // live count per entity type, for filter universality
}

func newEntityArena(capacityHint int) *entityArena {
	return &entityArena{
		entities:  make([]entity, 1, max1(capacityHint, 1)),
		typeCount: make(map[uint32]int),
	}
}

func (a *entityArena) get(idx uint32) *entity {
	return &a.entities[idx]
}

func (a *entityArena) alloc() uint32 {
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		a.entities[idx] = entity{}
		a.aliveCnt++
		return idx
	}
	a.entities = append(a.entities, entity{})
	a.aliveCnt++
	return uint32(len(a.entities) - 1)
}

func (a *entityArena) free(idx uint32) {
	e := &a.entities[idx]
	if e.entityType != untypedType {
		a.decType(e.entityType)
	}
	*e = entity{}
	a.freeList = append(a.freeList, idx)
	a.aliveCnt--
}

func (a *entityArena) incType(t uint32) {
	if t == untypedType {
		return
	}
	a.typeCount[t]++
}

func (a *entityArena) decType(t uint32) {
	if t == untypedType {
		return
	}
	a.typeCount[t]--
	if a.typeCount[t] <= 0 {
		delete(a.typeCount, t)
	}
}

func (a *entityArena) len() int { return len(a.entities) }

func (a *entityArena) liveTypes() map[uint32]int { return a.typeCount }

func (a *entityArena) aliveCount() int { return a.aliveCnt }
