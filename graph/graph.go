// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package graph provides the immutable edge stores backing the
// biggraph relaxation engine: a validated edge relation with
// out-degrees, a hash-sharded form of the relation for the join
// strategy, and a replicated adjacency for the broadcast strategy.
// All three are built once before the iteration loop starts and are
// never mutated afterwards.
package graph

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// An Edge is a directed edge between two nodes of the dense id space
// [0, N).
type Edge struct {
	Src, Dst uint64
}

// Kind determines how an edge listing is interpreted when a graph is
// built.
type Kind int

const (
	// Directed stores each listed edge once, as given.
	Directed Kind = iota
	// Undirected stores both (u,v) and (v,u) for each listed edge.
	Undirected
)

// A Graph is a validated, immutable edge relation over the dense node
// id space [0, N), together with per-node out-degrees. A Graph never
// changes after New returns.
type Graph struct {
	n      int
	edges  []Edge
	outdeg []int
}

// New builds a graph over nodes [0, n) from the given edge listing.
// For Undirected kind, each listed edge is inserted in both
// directions. New validates every endpoint against [0, n); a stray
// endpoint is a configuration error that fails the build before any
// iteration can start.
func New(n int, edges []Edge, kind Kind) (*Graph, error) {
	if n < 0 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("graph: negative node count %d", n))
	}
	g := &Graph{n: n, outdeg: make([]int, n)}
	switch kind {
	case Directed:
		g.edges = make([]Edge, 0, len(edges))
	case Undirected:
		g.edges = make([]Edge, 0, 2*len(edges))
	default:
		return nil, errors.E(errors.Invalid, fmt.Sprintf("graph: invalid kind %d", kind))
	}
	for i, e := range edges {
		if e.Src >= uint64(n) || e.Dst >= uint64(n) {
			return nil, errors.E(errors.Invalid,
				fmt.Sprintf("graph: edge %d (%d,%d): endpoint out of range [0,%d)", i, e.Src, e.Dst, n))
		}
		g.edges = append(g.edges, e)
		g.outdeg[e.Src]++
		if kind == Undirected {
			g.edges = append(g.edges, Edge{Src: e.Dst, Dst: e.Src})
			g.outdeg[e.Dst]++
		}
	}
	return g, nil
}

// NumNodes returns the number of nodes N.
func (g *Graph) NumNodes() int { return g.n }

// NumEdges returns the number of stored edges, counting both
// directions of an undirected edge.
func (g *Graph) NumEdges() int { return len(g.edges) }

// Edges returns the stored edge relation. The returned slice is
// shared and must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// OutDegree returns the number of edges leaving the given node.
func (g *Graph) OutDegree(node uint64) int { return g.outdeg[node] }
