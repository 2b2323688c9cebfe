// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package components_test

import (
	"context"
	"math/rand"
	"reflect"
	"testing"

	"github.com/grailbio/biggraph/components"
	"github.com/grailbio/biggraph/graph"
	"github.com/grailbio/biggraph/graphtest"
)

func TestTwoPairs(t *testing.T) {
	graphtest.Strategies(t, func(t *testing.T, broadcast bool) {
		g := graphtest.TwoPairs(t)
		result, err := components.Run(context.Background(), g, components.Opts{MaxIter: 10, Broadcast: broadcast})
		if err != nil {
			t.Fatal(err)
		}
		if !result.Converged {
			t.Error("expected convergence")
		}
		if got, want := result.Labels, []uint64{0, 0, 2, 2}; !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}

// TestStar verifies that a star collapses to the center's label in a
// single iteration.
func TestStar(t *testing.T) {
	graphtest.Strategies(t, func(t *testing.T, broadcast bool) {
		g := graphtest.Star(t, 4)
		engine, err := components.New(g, components.Opts{MaxIter: 10, Broadcast: broadcast})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := engine.Step(context.Background()); err != nil {
			t.Fatal(err)
		}
		for node, label := range engine.Result().Values {
			if label != 0 {
				t.Errorf("node %d: got %v, want 0", node, label)
			}
		}
	})
}

// TestMonotone steps a labeling to completion, checking after every
// iteration that no label increased.
func TestMonotone(t *testing.T) {
	graphtest.Strategies(t, func(t *testing.T, broadcast bool) {
		const n = 100
		rnd := rand.New(rand.NewSource(3))
		var edges []graph.Edge
		for i := 0; i < 150; i++ {
			edges = append(edges, graph.Edge{Src: uint64(rnd.Intn(n)), Dst: uint64(rnd.Intn(n))})
		}
		g := graphtest.Build(t, n, edges, graph.Undirected)
		engine, err := components.New(g, components.Opts{MaxIter: n, Broadcast: broadcast})
		if err != nil {
			t.Fatal(err)
		}
		ctx := context.Background()
		prev := append([]uint64{}, engine.Result().Values...)
		for engine.Running() {
			if _, err := engine.Step(ctx); err != nil {
				t.Fatal(err)
			}
			labels := engine.Result().Values
			for node := range labels {
				if labels[node] > prev[node] {
					t.Fatalf("node %d: label rose %d -> %d", node, prev[node], labels[node])
				}
			}
			copy(prev, labels)
		}
		if !engine.Result().Converged {
			t.Error("expected convergence")
		}
	})
}

// TestEquivalenceClasses checks the fixpoint labeling against a
// union-find reference: two nodes share a label exactly when they
// are connected.
func TestEquivalenceClasses(t *testing.T) {
	graphtest.Strategies(t, func(t *testing.T, broadcast bool) {
		const n = 80
		rnd := rand.New(rand.NewSource(11))
		var edges []graph.Edge
		for i := 0; i < 60; i++ {
			edges = append(edges, graph.Edge{Src: uint64(rnd.Intn(n)), Dst: uint64(rnd.Intn(n))})
		}
		g := graphtest.Build(t, n, edges, graph.Undirected)
		result, err := components.Run(context.Background(), g, components.Opts{MaxIter: n, Broadcast: broadcast})
		if err != nil {
			t.Fatal(err)
		}
		if !result.Converged {
			t.Fatal("expected convergence")
		}
		parent := make([]int, n)
		for i := range parent {
			parent[i] = i
		}
		var find func(int) int
		find = func(x int) int {
			if parent[x] != x {
				parent[x] = find(parent[x])
			}
			return parent[x]
		}
		for _, e := range edges {
			parent[find(int(e.Src))] = find(int(e.Dst))
		}
		for u := 0; u < n; u++ {
			for v := u + 1; v < n; v++ {
				connected := find(u) == find(v)
				same := result.Labels[u] == result.Labels[v]
				if connected != same {
					t.Fatalf("nodes %d, %d: connected=%v, same label=%v", u, v, connected, same)
				}
			}
		}
	})
}

// TestDiameterBound verifies the convergence bound: labels on a path
// of diameter d fix within d iterations.
func TestDiameterBound(t *testing.T) {
	graphtest.Strategies(t, func(t *testing.T, broadcast bool) {
		const n = 9 // diameter 8
		g := graphtest.Path(t, n)
		engine, err := components.New(g, components.Opts{MaxIter: 100, Broadcast: broadcast})
		if err != nil {
			t.Fatal(err)
		}
		ctx := context.Background()
		for iter := 0; iter < n-1; iter++ {
			if _, err := engine.Step(ctx); err != nil {
				t.Fatal(err)
			}
		}
		for node, label := range engine.Result().Values {
			if label != 0 {
				t.Errorf("node %d: got %v after diameter iterations, want 0", node, label)
			}
		}
	})
}

// TestBudgetExhausted runs a diameter-3 path on a one-iteration
// budget: the run halts at the budget with a valid, unconverged
// snapshot and no error.
func TestBudgetExhausted(t *testing.T) {
	graphtest.Strategies(t, func(t *testing.T, broadcast bool) {
		g := graphtest.Path(t, 4)
		result, err := components.Run(context.Background(), g, components.Opts{MaxIter: 1, Broadcast: broadcast})
		if err != nil {
			t.Fatal(err)
		}
		if result.Converged {
			t.Error("unexpected convergence")
		}
		if got, want := result.Iterations, 1; got != want {
			t.Errorf("got %v, want %v", got, want)
		}
		if got, want := result.Labels, []uint64{0, 0, 1, 2}; !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}

// TestStrategyEquivalence verifies that both strategies compute the
// same labeling on random graphs at several partition counts.
func TestStrategyEquivalence(t *testing.T) {
	const n = 120
	rnd := rand.New(rand.NewSource(5))
	var edges []graph.Edge
	for i := 0; i < 200; i++ {
		edges = append(edges, graph.Edge{Src: uint64(rnd.Intn(n)), Dst: uint64(rnd.Intn(n))})
	}
	g := graphtest.Build(t, n, edges, graph.Undirected)
	ctx := context.Background()
	var want []uint64
	for _, parallelism := range []int{1, 3, 8} {
		for _, broadcast := range []bool{false, true} {
			result, err := components.Run(ctx, g, components.Opts{
				MaxIter:     n,
				Broadcast:   broadcast,
				Parallelism: parallelism,
			})
			if err != nil {
				t.Fatal(err)
			}
			if want == nil {
				want = result.Labels
				continue
			}
			if !reflect.DeepEqual(result.Labels, want) {
				t.Errorf("parallelism=%d broadcast=%v: labels diverge", parallelism, broadcast)
			}
		}
	}
}
