// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package biggraph_test

import (
	"context"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/biggraph"
	"github.com/grailbio/biggraph/graph"
)

// minKernel is a plain min-label kernel for engine tests.
type minKernel struct{}

func (minKernel) Relax(value uint64, _ int) uint64 { return value }

func (minKernel) Combine(a, b uint64) uint64 {
	if b < a {
		return b
	}
	return a
}

func (minKernel) Improves(candidate, current uint64) bool { return candidate < current }

func (minKernel) Fold(values []uint64, batch *biggraph.Batch[uint64]) bool {
	var changed bool
	batch.Each(func(node uint64, value uint64) {
		values[node] = value
		changed = true
	})
	return changed
}

func pathEngine(t *testing.T, n, maxIter int) *biggraph.Engine[uint64] {
	t.Helper()
	edges := make([]graph.Edge, n-1)
	for i := range edges {
		edges[i] = graph.Edge{Src: uint64(i), Dst: uint64(i + 1)}
	}
	g, err := graph.New(n, edges, graph.Undirected)
	if err != nil {
		t.Fatal(err)
	}
	initial := make([]uint64, n)
	for i := range initial {
		initial[i] = uint64(i)
	}
	engine, err := biggraph.New[uint64](minKernel{}, biggraph.Join[uint64](graph.Shard(g, 4)), initial, biggraph.Opts{MaxIter: maxIter})
	if err != nil {
		t.Fatal(err)
	}
	return engine
}

func TestEngineFixpoint(t *testing.T) {
	ctx := context.Background()
	engine := pathEngine(t, 8, 100)
	result, err := engine.Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Converged {
		t.Error("expected convergence")
	}
	for node, value := range result.Values {
		if value != 0 {
			t.Errorf("node %d: got %v, want 0", node, value)
		}
	}
	// The path has diameter 7; the fixpoint must be found within 7
	// iterations plus the final unchanged round that detects it.
	if result.Iterations > 8 {
		t.Errorf("took %d iterations", result.Iterations)
	}
}

// TestEngineIdempotence verifies that stepping a stopped engine is a
// frozen no-op reporting no change.
func TestEngineIdempotence(t *testing.T) {
	ctx := context.Background()
	engine := pathEngine(t, 8, 100)
	if _, err := engine.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if engine.Running() {
		t.Fatal("engine still running")
	}
	before := append([]uint64{}, engine.Result().Values...)
	iterations := engine.Result().Iterations
	changed, err := engine.Step(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("step after stop reported a change")
	}
	after := engine.Result()
	if after.Iterations != iterations {
		t.Errorf("got %v, want %v", after.Iterations, iterations)
	}
	for node := range before {
		if after.Values[node] != before[node] {
			t.Errorf("node %d: value moved after stop", node)
		}
	}
}

// TestEngineBudget verifies that exhausting the budget is a silent
// halt yielding an unconverged snapshot.
func TestEngineBudget(t *testing.T) {
	ctx := context.Background()
	// Diameter 7, budget 1: labels cannot settle.
	engine := pathEngine(t, 8, 1)
	changed, err := engine.Step(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Fatal("expected first iteration to change labels")
	}
	if engine.Running() {
		t.Error("engine still running past its budget")
	}
	result := engine.Result()
	if result.Converged {
		t.Error("unexpected convergence")
	}
	if got, want := result.Iterations, 1; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	// After one iteration every node has adopted its smallest
	// neighbor's label.
	want := []uint64{0, 0, 1, 2, 3, 4, 5, 6}
	for node, value := range result.Values {
		if value != want[node] {
			t.Errorf("node %d: got %v, want %v", node, value, want[node])
		}
	}
}

func TestEngineEmpty(t *testing.T) {
	g, err := graph.New(0, nil, graph.Undirected)
	if err != nil {
		t.Fatal(err)
	}
	engine, err := biggraph.New[uint64](minKernel{}, biggraph.Join[uint64](graph.Shard(g, 2)), nil, biggraph.Opts{MaxIter: 10})
	if err != nil {
		t.Fatal(err)
	}
	if engine.Running() {
		t.Error("empty engine should start stopped")
	}
	result, err := engine.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Iterations != 0 || !result.Converged {
		t.Errorf("got %+v, want zero iterations, converged", result)
	}
}

func TestEngineInvalidBudget(t *testing.T) {
	g, err := graph.New(1, nil, graph.Undirected)
	if err != nil {
		t.Fatal(err)
	}
	_, err = biggraph.New[uint64](minKernel{}, biggraph.Join[uint64](graph.Shard(g, 1)), []uint64{0}, biggraph.Opts{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(errors.Invalid, err) {
		t.Errorf("got %v, want Invalid", err)
	}
}

func TestEngineCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	engine := pathEngine(t, 8, 100)
	if _, err := engine.Run(ctx); err == nil {
		t.Fatal("expected error")
	}
}
