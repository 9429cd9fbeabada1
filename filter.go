// SPDX-License-Identifier: MIT

package quadtree

import "github.com/spatialidx/quadtree/internal/filterbits"

type filterRepr uint8

const (
	filterLinear filterRepr = iota
	filterDense
	filterHash
)

const (
	filterLinearMax  = 16
	filterDenseLimit = 4096
)

// EntityTypeFilter restricts a query to entities whose type tag is in a
// caller-supplied set. It picks its internal representation once, at
// construction, from the tag count and spread.
type EntityTypeFilter struct {
	repr   filterRepr
	linear []uint32
	dense  *filterbits.Dense
	hash   map[uint32]struct{}
}

// NewEntityTypeFilter builds a filter over the given (deduplicated) type
// tags.
func NewEntityTypeFilter(tags []uint32) *EntityTypeFilter {
	uniq := dedupUint32(tags)

	if len(uniq) <= filterLinearMax {
		return &EntityTypeFilter{repr: filterLinear, linear: uniq}
	}

	var maxTag uint32
	for _, t := range uniq {
		if t > maxTag {
			maxTag = t
		}
	}

	if maxTag < filterDenseLimit {
		// Density: number of set tags over the span they occupy.
		density := float64(len(uniq)) / float64(maxTag+1)
		if density >= 0.25 {
			d := filterbits.NewDense(maxTag + 1)
			for _, t := range uniq {
				d.Set(t)
			}
			return &EntityTypeFilter{repr: filterDense, dense: d}
		}
	}

	h := make(map[uint32]struct{}, len(uniq))
	for _, t := range uniq {
		h[t] = struct{}{}
	}
	return &EntityTypeFilter{repr: filterHash, hash: h}
}

func dedupUint32(in []uint32) []uint32 {
	seen := make(map[uint32]struct{}, len(in))
	out := make([]uint32, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// Contains reports whether tag is in the filter's set.
func (f *EntityTypeFilter) Contains(tag uint32) bool {
	switch f.repr {
	case filterLinear:
		for _, t := range f.linear {
			if t == tag {
				return true
			}
		}
		return false
	case filterDense:
		return f.dense.Test(tag)
	default:
		_, ok := f.hash[tag]
		return ok
	}
}

// size reports how many distinct tags the filter holds.
func (f *EntityTypeFilter) size() int {
	switch f.repr {
	case filterLinear:
		return len(f.linear)
	case filterDense:
		return int(f.dense.Count())
	default:
		return len(f.hash)
	}
}

// isUniversal reports whether the filter contains every type tag
// currently live in the tree, i.e. filtering by it is a no-op. liveTypes
// is the tree's live-type refcount map.
func (f *EntityTypeFilter) isUniversal(liveTypes map[uint32]int) bool {
	if len(liveTypes) > f.size() {
		return false
	}
	for t := range liveTypes {
		if !f.Contains(t) {
			return false
		}
	}
	return true
}
