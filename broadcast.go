// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package biggraph

import (
	"context"

	"github.com/grailbio/biggraph/graph"
)

// Broadcast returns a source implementing the replicated-adjacency
// strategy: every partition shares one read-only adjacency and owns a
// contiguous range of nodes; for each owned node the candidate is
// computed once from the snapshot and emitted to every out-neighbor.
// For a given graph, Broadcast produces the same candidate multiset
// as Join, so the two may be interchanged without observable effect
// on the computed values.
func Broadcast[V any](adj *graph.Adjacency, partitions int) Source[V] {
	if partitions < 1 {
		panic("biggraph: partitions must be positive")
	}
	return broadcastSource[V]{adj, partitions}
}

type broadcastSource[V any] struct {
	adj        *graph.Adjacency
	partitions int
}

func (s broadcastSource[V]) Partitions() int { return s.partitions }

func (s broadcastSource[V]) Reader(partition int, relax func(node uint64, outDegree int) V) DeltaReader[V] {
	// Nodes are split into contiguous ranges, remainder spread over
	// the leading partitions.
	n := s.adj.NumNodes()
	size, rem := n/s.partitions, n%s.partitions
	lo := partition*size + min(partition, rem)
	hi := lo + size
	if partition < rem {
		hi++
	}
	return &broadcastReader[V]{
		adj:   s.adj,
		node:  uint64(lo),
		hi:    uint64(hi),
		relax: relax,
	}
}

type broadcastReader[V any] struct {
	adj   *graph.Adjacency
	node  uint64
	hi    uint64
	relax func(node uint64, outDegree int) V

	// pending neighbors of the current node, paired with its
	// candidate; carries emission across Read calls when a neighbor
	// list straddles a chunk boundary.
	pending   []uint64
	candidate V
}

func (r *broadcastReader[V]) Read(ctx context.Context, deltas []Delta[V]) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int
	for n < len(deltas) {
		if len(r.pending) == 0 {
			if r.node >= r.hi {
				return n, EOF
			}
			neighbors := r.adj.Neighbors(r.node)
			if len(neighbors) > 0 {
				r.candidate = r.relax(r.node, len(neighbors))
				r.pending = neighbors
			}
			r.node++
			continue
		}
		deltas[n] = Delta[V]{Node: r.pending[0], Value: r.candidate}
		r.pending = r.pending[1:]
		n++
	}
	if len(r.pending) == 0 && r.node >= r.hi {
		return n, EOF
	}
	return n, nil
}
