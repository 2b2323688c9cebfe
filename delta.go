// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package biggraph

import (
	"github.com/grailbio/base/must"
)

// A Delta is a single candidate value targeting a node, produced by a
// delta reader during an iteration's generation phase.
type Delta[V any] struct {
	Node  uint64
	Value V
}

// A Batch maintains a combining table over the dense node id space:
// candidates added for the same node are continually combined by the
// batch's combiner, so a batch holds at most one value per node
// regardless of how many candidates were added. Batches are the
// at-rest form of an iteration's delta multiset; they are merged
// across partitions, filtered, folded, and then discarded.
//
// A Batch is not safe for concurrent use. Partitions each own a
// private batch; merging happens on the coordinator.
type Batch[V any] struct {
	combine func(a, b V) V
	values  []V
	hits    []uint32
	n       int
}

// NewBatch returns an empty batch over nodes [0, n) combining
// candidates with the provided combiner.
func NewBatch[V any](n int, combine func(a, b V) V) *Batch[V] {
	return &Batch[V]{
		combine: combine,
		values:  make([]V, n),
		hits:    make([]uint32, n),
	}
}

// Add combines a candidate for the given node into the batch. When no
// candidate exists for the node, the value is copied directly.
func (b *Batch[V]) Add(node uint64, value V) {
	must.Truef(node < uint64(len(b.values)), "batch: node %d out of range [0,%d)", node, len(b.values))
	if b.hits[node] == 0 {
		b.values[node] = value
		b.n++
	} else {
		b.values[node] = b.combine(b.values[node], value)
	}
	b.hits[node]++
}

// Merge combines every entry of batch c into b. The two batches must
// cover the same node range.
func (b *Batch[V]) Merge(c *Batch[V]) {
	must.Truef(len(b.values) == len(c.values), "batch: merge of mismatched ranges %d, %d", len(b.values), len(c.values))
	for node, hits := range c.hits {
		if hits == 0 {
			continue
		}
		if b.hits[node] == 0 {
			b.values[node] = c.values[node]
			b.n++
		} else {
			b.values[node] = b.combine(b.values[node], c.values[node])
		}
		b.hits[node] += hits
	}
}

// Value returns the combined value for the given node and whether the
// node received any candidate.
func (b *Batch[V]) Value(node uint64) (V, bool) {
	if node >= uint64(len(b.hits)) || b.hits[node] == 0 {
		var zero V
		return zero, false
	}
	return b.values[node], true
}

// Len returns the number of distinct nodes holding a combined value.
func (b *Batch[V]) Len() int { return b.n }

// Hits returns the total number of candidates added, counting
// duplicates per node.
func (b *Batch[V]) Hits() int64 {
	var total int64
	for _, hits := range b.hits {
		total += int64(hits)
	}
	return total
}

// Filter drops every entry for which keep returns false.
func (b *Batch[V]) Filter(keep func(node uint64, value V) bool) {
	for node, hits := range b.hits {
		if hits == 0 {
			continue
		}
		if !keep(uint64(node), b.values[node]) {
			b.hits[node] = 0
			b.n--
		}
	}
}

// Each calls fn for every node holding a combined value, in node
// order.
func (b *Batch[V]) Each(fn func(node uint64, value V)) {
	for node, hits := range b.hits {
		if hits > 0 {
			fn(uint64(node), b.values[node])
		}
	}
}
