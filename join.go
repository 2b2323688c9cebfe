// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package biggraph

import (
	"context"

	"github.com/grailbio/biggraph/graph"
)

// Join returns a source implementing the shuffled-join strategy: the
// edge relation is hash-sharded by source node, and each iteration a
// partition streams its shard, pairing every edge (x, y) with x's
// snapshot value to emit a candidate targeting y. This is the
// equi-join of the value snapshot with the edge relation on node id,
// realized as an indexed lookup since the snapshot is dense.
func Join[V any](shards *graph.Shards) Source[V] {
	return joinSource[V]{shards}
}

type joinSource[V any] struct {
	shards *graph.Shards
}

func (s joinSource[V]) Partitions() int { return s.shards.NumShard() }

func (s joinSource[V]) Reader(partition int, relax func(node uint64, outDegree int) V) DeltaReader[V] {
	return &joinReader[V]{
		edges: s.shards.Edges(partition),
		graph: s.shards.Graph(),
		relax: relax,
	}
}

type joinReader[V any] struct {
	edges []graph.Edge
	graph *graph.Graph
	relax func(node uint64, outDegree int) V
}

func (r *joinReader[V]) Read(ctx context.Context, deltas []Delta[V]) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int
	for n < len(deltas) && len(r.edges) > 0 {
		e := r.edges[0]
		r.edges = r.edges[1:]
		deltas[n] = Delta[V]{Node: e.Dst, Value: r.relax(e.Src, r.graph.OutDegree(e.Src))}
		n++
	}
	if len(r.edges) == 0 {
		return n, EOF
	}
	return n, nil
}
