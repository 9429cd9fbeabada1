// SPDX-License-Identifier: MIT

package quadtree

// noCopy may be embedded in structs which must not be copied after the
// first use. See https://golang.org/issue/8005#issuecomment-190753527
// for details, and `go vet -copylocks`.
//
//	_ noCopy
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Stats is a point-in-time summary of a Tree's storage, useful for
// logging and capacity planning alongside QuerySnapshot.
type Stats struct {
	Nodes         int
	NodeEntities  int
	Entities      int
	LiveEntities  int
	LargeEntities int
	RebuildCount  uint64
	DistinctTypes int
}

// Stats summarizes the tree's current storage and lifecycle counters.
func (t *Tree) Stats() Stats {
	nodes, nodeEntities, entities := t.StorageCounts()
	return Stats{
		Nodes:         nodes,
		NodeEntities:  nodeEntities,
		Entities:      entities,
		LiveEntities:  t.entities.aliveCount(),
		LargeEntities: len(t.largeEntities),
		RebuildCount:  t.rebuildCount,
		DistinctTypes: len(t.entities.liveTypes()),
	}
}
