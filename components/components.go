// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package components instantiates the biggraph relaxation engine for
// distributed connected-components labeling. Every node starts in its
// own component, labeled with its own id; each iteration a node
// offers its label to all of its neighbors and adopts the minimum
// label offered to it, provided that label is strictly smaller than
// its own. Labels therefore only ever decrease, and at fixpoint two
// nodes share a label exactly when they are connected.
package components

import (
	"context"
	"runtime"

	"github.com/grailbio/base/status"
	"github.com/grailbio/biggraph"
	"github.com/grailbio/biggraph/graph"
)

// Opts configures a connected-components run.
type Opts struct {
	// MaxIter is the iteration budget. Must be positive. A graph of
	// diameter d reaches fixpoint within d iterations, so budgets
	// need not be generous.
	MaxIter int

	// Broadcast selects the replicated-adjacency strategy in place of
	// the shuffled-join strategy. The two produce identical labels.
	Broadcast bool

	// Parallelism is the number of partitions candidates are produced
	// across. Defaults to GOMAXPROCS.
	Parallelism int

	// Status optionally receives per-iteration progress.
	Status *status.Group
}

// Result holds the labeling computed by a run.
type Result struct {
	// Labels maps node id to component label: the smallest node id
	// reachable from the node, if the run converged.
	Labels []uint64
	// Iterations is the number of iterations performed.
	Iterations int
	// Converged reports whether a fixpoint was reached within the
	// budget. An unconverged labeling is a valid intermediate
	// snapshot.
	Converged bool
}

// New returns an engine computing connected components of g. The
// graph should be built with graph.Undirected so that labels flow
// both ways along each input edge.
func New(g *graph.Graph, opts Opts) (*biggraph.Engine[uint64], error) {
	parallelism := opts.Parallelism
	if parallelism < 1 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	var source biggraph.Source[uint64]
	if opts.Broadcast {
		source = biggraph.Broadcast[uint64](graph.NewAdjacency(g), parallelism)
	} else {
		source = biggraph.Join[uint64](graph.Shard(g, parallelism))
	}
	labels := make([]uint64, g.NumNodes())
	for i := range labels {
		labels[i] = uint64(i)
	}
	return biggraph.New[uint64](kernel{}, source, labels, biggraph.Opts{
		MaxIter: opts.MaxIter,
		Status:  opts.Status,
	})
}

// Run computes the connected components of g.
func Run(ctx context.Context, g *graph.Graph, opts Opts) (Result, error) {
	engine, err := New(g, opts)
	if err != nil {
		return Result{}, err
	}
	result, err := engine.Run(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Labels:     result.Values,
		Iterations: result.Iterations,
		Converged:  result.Converged,
	}, nil
}

// kernel is the min-label monotone relaxation: candidates are the
// neighbor's label, competing candidates keep the minimum, and a
// candidate is applied only when strictly smaller than the node's
// current label.
type kernel struct{}

func (kernel) Relax(label uint64, _ int) uint64 { return label }

func (kernel) Combine(a, b uint64) uint64 {
	if b < a {
		return b
	}
	return a
}

func (kernel) Improves(candidate, current uint64) bool { return candidate < current }

func (kernel) Fold(labels []uint64, batch *biggraph.Batch[uint64]) bool {
	var changed bool
	batch.Each(func(node uint64, label uint64) {
		labels[node] = label
		changed = true
	})
	return changed
}
