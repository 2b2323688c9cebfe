// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package graphtest provides utilities for testing graph relaxation:
// constructors for the toy graphs the package tests are built on,
// and a helper to run a test body under both candidate-distribution
// strategies.
package graphtest

import (
	"testing"

	"github.com/grailbio/biggraph/graph"
)

// Build constructs a graph over n nodes, failing the calling test on
// a construction error.
func Build(t *testing.T, n int, edges []graph.Edge, kind graph.Kind) *graph.Graph {
	t.Helper()
	g, err := graph.New(n, edges, kind)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// Path returns the undirected path 0-1-...-(n-1); its diameter is
// n-1.
func Path(t *testing.T, n int) *graph.Graph {
	t.Helper()
	edges := make([]graph.Edge, n-1)
	for i := range edges {
		edges[i] = graph.Edge{Src: uint64(i), Dst: uint64(i + 1)}
	}
	return Build(t, n, edges, graph.Undirected)
}

// Star returns the undirected star with center 0 and the given
// number of leaves.
func Star(t *testing.T, leaves int) *graph.Graph {
	t.Helper()
	edges := make([]graph.Edge, leaves)
	for i := range edges {
		edges[i] = graph.Edge{Src: 0, Dst: uint64(i + 1)}
	}
	return Build(t, leaves+1, edges, graph.Undirected)
}

// Cycle returns the directed cycle 0->1->...->(n-1)->0.
func Cycle(t *testing.T, n int) *graph.Graph {
	t.Helper()
	edges := make([]graph.Edge, n)
	for i := range edges {
		edges[i] = graph.Edge{Src: uint64(i), Dst: uint64((i + 1) % n)}
	}
	return Build(t, n, edges, graph.Directed)
}

// TwoPairs returns the 4-node undirected graph with edges (0,1) and
// (2,3): two components of two nodes each.
func TwoPairs(t *testing.T) *graph.Graph {
	t.Helper()
	return Build(t, 4, []graph.Edge{{Src: 0, Dst: 1}, {Src: 2, Dst: 3}}, graph.Undirected)
}

// Strategies runs the test body once per candidate-distribution
// strategy, as subtests named "join" and "broadcast". Bodies should
// produce identical results under both.
func Strategies(t *testing.T, run func(t *testing.T, broadcast bool)) {
	t.Run("join", func(t *testing.T) { run(t, false) })
	t.Run("broadcast", func(t *testing.T) { run(t, true) })
}
