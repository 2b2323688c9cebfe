// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package graph

// Adjacency is the fully replicated form of a graph's edge relation
// used by the broadcast strategy: a dense map from node id to
// out-neighbor list, held identically by every partition. It trades
// O(edges) memory per worker for iteration-time neighbor lookups
// that need no shuffle. Built once, read-only thereafter.
//
// The neighbor lists share one backing array indexed by offsets, so
// replication costs one allocation rather than one per node.
type Adjacency struct {
	graph     *Graph
	offsets   []int
	neighbors []uint64
}

// NewAdjacency aggregates g's edge relation into a replicated
// adjacency.
func NewAdjacency(g *Graph) *Adjacency {
	n := g.NumNodes()
	a := &Adjacency{
		graph:     g,
		offsets:   make([]int, n+1),
		neighbors: make([]uint64, g.NumEdges()),
	}
	for i := 0; i < n; i++ {
		a.offsets[i+1] = a.offsets[i] + g.OutDegree(uint64(i))
	}
	next := make([]int, n)
	copy(next, a.offsets[:n])
	for _, e := range g.Edges() {
		a.neighbors[next[e.Src]] = e.Dst
		next[e.Src]++
	}
	return a
}

// NumNodes returns the number of nodes N.
func (a *Adjacency) NumNodes() int { return len(a.offsets) - 1 }

// Neighbors returns the out-neighbors of the given node. The returned
// slice is shared and must not be modified.
func (a *Adjacency) Neighbors(node uint64) []uint64 {
	return a.neighbors[a.offsets[node]:a.offsets[node+1]]
}

// Graph returns the graph the adjacency was built from.
func (a *Adjacency) Graph() *Graph { return a.graph }
