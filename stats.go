// SPDX-License-Identifier: MIT

package quadtree

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// QuerySnapshot is a point-in-time copy of a Tree's query counters, as
// returned by TakeQueryStats.
type QuerySnapshot struct {
	Queries      uint64
	NodesVisited uint64
	EntitiesHit  uint64
	PairsEmitted uint64
}

// queryStats accumulates lightweight hot-path counters with atomics, and
// mirrors them onto a private prometheus registry so a caller can scrape
// them without forcing every Tree onto the global registry.
type queryStats struct {
	queries      atomic.Uint64
	nodesVisited atomic.Uint64
	entitiesHit  atomic.Uint64
	pairsEmitted atomic.Uint64

	registry *prometheus.Registry
}

func newQueryStats() *queryStats {
	return &queryStats{}
}

// enableRegistry lazily builds a prometheus registry exposing the running
// counters on first call and returns the same registry afterwards.
func (s *queryStats) enableRegistry() *prometheus.Registry {
	if s.registry != nil {
		return s.registry
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "quadtree_queries_total",
			Help: "Total number of range queries issued against the tree.",
		}, func() float64 { return float64(s.queries.Load()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "quadtree_nodes_visited_total",
			Help: "Total number of node visits across all queries.",
		}, func() float64 { return float64(s.nodesVisited.Load()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "quadtree_entities_hit_total",
			Help: "Total number of entity-level hits reported across all queries.",
		}, func() float64 { return float64(s.entitiesHit.Load()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "quadtree_pairs_emitted_total",
			Help: "Total number of collision pairs emitted.",
		}, func() float64 { return float64(s.pairsEmitted.Load()) }),
	)
	s.registry = reg
	return reg
}

func (s *queryStats) recordQuery(nodesVisited, entitiesHit uint64) {
	s.queries.Add(1)
	s.nodesVisited.Add(nodesVisited)
	s.entitiesHit.Add(entitiesHit)
}

func (s *queryStats) recordPairs(n uint64) {
	s.pairsEmitted.Add(n)
}

func (s *queryStats) snapshot() QuerySnapshot {
	return QuerySnapshot{
		Queries:      s.queries.Load(),
		NodesVisited: s.nodesVisited.Load(),
		EntitiesHit:  s.entitiesHit.Load(),
		PairsEmitted: s.pairsEmitted.Load(),
	}
}

// TakeQueryStats returns a snapshot of the tree's accumulated query
// counters. Counters are cumulative for the tree's lifetime; callers that
// want per-interval numbers should diff successive snapshots.
func (t *Tree) TakeQueryStats() QuerySnapshot {
	return t.stats.snapshot()
}

// Registry returns a prometheus registry exposing this tree's counters,
// building it on first use. The counters are recorded on every query
// whatever the Config, so the registry reports them from the tree's
// creation on.
func (t *Tree) Registry() *prometheus.Registry {
	return t.stats.enableRegistry()
}
