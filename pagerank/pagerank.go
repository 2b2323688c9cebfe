// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package pagerank instantiates the biggraph relaxation engine for
// PageRank. Ranks start at 1/N; each iteration a node distributes
// its rank evenly over its out-edges, inbound contributions are
// summed per node, and the sum is dampened against a uniform floor:
//
//	rank' = damp*inbound + (1-damp)/N
//
// The run converges when no node's rank moves by more than a relative
// epsilon in one iteration.
//
// A node with no out-edges distributes nothing: its rank mass leaks
// out of the system rather than being redistributed by teleport. The
// leak is deliberate, preserving the reference behavior; correcting
// it would change every computed rank.
package pagerank

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/status"
	"github.com/grailbio/biggraph"
	"github.com/grailbio/biggraph/graph"
)

const (
	// DefaultDamp is the dampening factor applied when Opts.Damp is
	// unset.
	DefaultDamp = 0.85
	// DefaultEps is the relative convergence threshold applied when
	// Opts.Eps is unset.
	DefaultEps = 1e-8
)

// Opts configures a PageRank run.
type Opts struct {
	// MaxIter is the iteration budget. Must be positive.
	MaxIter int

	// Damp is the dampening factor: the share of a node's rank that
	// is redistributed along its out-edges, the remainder being held
	// as a uniform floor. Must lie in [0, 1). Defaults to
	// DefaultDamp.
	Damp float64

	// Eps is the relative per-node change below which an iteration
	// counts as unchanged. Must be positive. Defaults to DefaultEps.
	Eps float64

	// Broadcast selects the replicated-adjacency strategy in place of
	// the shuffled-join strategy.
	Broadcast bool

	// Parallelism is the number of partitions candidates are produced
	// across. Defaults to GOMAXPROCS.
	Parallelism int

	// Status optionally receives per-iteration progress.
	Status *status.Group
}

// Result holds the ranks computed by a run.
type Result struct {
	// Ranks maps node id to rank. Absent dangling nodes, ranks sum
	// to 1 within floating error.
	Ranks []float64
	// Iterations is the number of iterations performed.
	Iterations int
	// Converged reports whether every rank settled within Eps before
	// the budget ran out.
	Converged bool
}

// New returns an engine computing PageRank over g. The graph is
// interpreted as directed; callers wanting symmetric propagation
// should build it with graph.Undirected.
func New(g *graph.Graph, opts Opts) (*biggraph.Engine[float64], error) {
	if opts.Damp == 0 {
		opts.Damp = DefaultDamp
	}
	if opts.Eps == 0 {
		opts.Eps = DefaultEps
	}
	// Degenerate dampening or epsilon diverges or spins; both are
	// caller logic errors caught here, once, never per iteration.
	if opts.Damp < 0 || opts.Damp >= 1 || math.IsNaN(opts.Damp) {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("pagerank: dampening %v outside [0,1)", opts.Damp))
	}
	if opts.Eps <= 0 || math.IsNaN(opts.Eps) {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("pagerank: epsilon %v is not positive", opts.Eps))
	}
	parallelism := opts.Parallelism
	if parallelism < 1 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	var source biggraph.Source[float64]
	if opts.Broadcast {
		source = biggraph.Broadcast[float64](graph.NewAdjacency(g), parallelism)
	} else {
		source = biggraph.Join[float64](graph.Shard(g, parallelism))
	}
	n := g.NumNodes()
	ranks := make([]float64, n)
	for i := range ranks {
		ranks[i] = 1 / float64(n)
	}
	k := &kernel{n: n, damp: opts.Damp, eps: opts.Eps, prev: make([]float64, n)}
	return biggraph.New[float64](k, source, ranks, biggraph.Opts{
		MaxIter: opts.MaxIter,
		Status:  opts.Status,
	})
}

// Run computes the PageRank of g.
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
		Ranks:      result.Values,
		Iterations: result.Iterations,
		Converged:  result.Converged,
	}, nil
}

// kernel is the rank-mass relaxation: candidates are the node's rank
// split over its out-edges, competing candidates sum, every reduced
// candidate is applied, and the fold dampens every node's inbound
// mass against the uniform floor. The kernel keeps each node's
// previous rank to drive the relative-change convergence test.
type kernel struct {
	n    int
	damp float64
	eps  float64
	prev []float64
}

func (k *kernel) Relax(rank float64, outDegree int) float64 {
	return rank / float64(outDegree)
}

func (*kernel) Combine(a, b float64) float64 { return a + b }

// Improves always passes: every node's rank is recomputed every
// iteration, and convergence is the fold's relative-change test
// rather than a candidate filter.
func (*kernel) Improves(candidate, current float64) bool { return true }

func (k *kernel) Fold(ranks []float64, batch *biggraph.Batch[float64]) bool {
	floor := (1 - k.damp) / float64(k.n)
	var changed bool
	for i := range ranks {
		// A node that received no mass this iteration settles on the
		// floor; the zero value stands in for the missing sum.
		mass, _ := batch.Value(uint64(i))
		old := ranks[i]
		rank := k.damp*mass + floor
		k.prev[i] = old
		ranks[i] = rank
		if math.Abs(rank-old)/rank > k.eps {
			changed = true
		}
	}
	return changed
}
